package course

// Repository - хранилище курсов, ключ - собственный ID курса.
type Repository interface {
	// Add добавляет курс или заменяет существующий с тем же ID.
	Add(course *Course)

	// Get возвращает курс по ID. Второе значение false, если курс не найден.
	Get(id string) (*Course, bool)

	// All возвращает снимок всех курсов. Порядок не гарантируется контрактом.
	All() []*Course

	// Len возвращает количество курсов.
	Len() int
}
