// Package student содержит доменную модель студента университета.
//
// Пакет определяет:
//
//   - Сущности: Person (личные данные) и Student (Person + учебное состояние)
//   - Value Objects: Grade
//   - Интерфейс репозитория: Repository
//
// # Архитектурные принципы
//
//  1. Нулевые внешние зависимости - только стандартная библиотека Go
//  2. Dependency Inversion - интерфейс Repository реализуется в infrastructure
//  3. Коллекции наружу отдаются только копиями, изменение - только через методы
//
// # Пример использования
//
//	s := NewStudent("1", "Alice", "alice@uni.com")
//	s.Enroll("CS101")
//	s.RecordGrade("CS101", Grade("A"))
//	s.RecordAttendance("CS101", []bool{true, true, false})
//
//	grades := s.Grades() // копия, изменения не затронут студента
//
// Согласованность между Courses(), Grades() и Attendance() не проверяется:
// оценку можно записать по курсу, на который студент не зачислен.
package student
