package util

import "math/rand"

// Rand - минимальный источник случайных чисел, нужный симуляции.
// *rand.Rand удовлетворяет интерфейсу; в тестах подставляется детерминированная реализация.
type Rand interface {
	Intn(n int) int
}

// NewRand создаёт генератор с указанным сидом (сид 0 заменяется на 1)
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = 1
	}
	return rand.New(rand.NewSource(seed))
}

// RandInt возвращает случайное число в диапазоне [min, max] включительно
func RandInt(r Rand, min, max int) int {
	if max < min {
		min, max = max, min
	}
	return min + r.Intn(max-min+1)
}
