package vec

// Vec2 представляет координаты клетки на игровом поле
type Vec2 struct {
	X, Y int
}

// Add возвращает сумму двух векторов
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{X: v.X + other.X, Y: v.Y + other.Y}
}

// Step возвращает соседнюю клетку со смещением (dx, dy)
func (v Vec2) Step(dx, dy int) Vec2 {
	return Vec2{X: v.X + dx, Y: v.Y + dy}
}

// InBounds проверяет, лежит ли клетка внутри поля width x height
func (v Vec2) InBounds(width, height int) bool {
	return v.X >= 0 && v.X < width && v.Y >= 0 && v.Y < height
}

// ChebyshevTo возвращает расстояние Чебышёва (максимум из |dx| и |dy|).
// Квадрат радиуса r вокруг клетки - это все клетки с ChebyshevTo <= r.
func (v Vec2) ChebyshevTo(other Vec2) int {
	dx := abs(v.X - other.X)
	dy := abs(v.Y - other.Y)
	if dx > dy {
		return dx
	}
	return dy
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
