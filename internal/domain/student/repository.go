package student

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// Реализации находятся в infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Repository - хранилище студентов, ключ - собственный ID студента.
// Хранилище владеет временем жизни студентов; удаления нет.
type Repository interface {
	// Add добавляет студента или заменяет существующего с тем же ID.
	Add(student *Student)

	// Get возвращает студента по ID. Второе значение false, если студент не найден.
	Get(id string) (*Student, bool)

	// All возвращает снимок всех студентов. Порядок не гарантируется контрактом.
	All() []*Student

	// Len возвращает количество студентов.
	Len() int
}
