package host

import "sync"

// SoundListener получает уведомления о звуках (например, для трансляции зрителям)
type SoundListener func(s Sound)

// Queue - потокобезопасный исполнитель с очередью ввода.
// Клавиши добавляются из других горутин (REST API), симуляция забирает их по одной за тик.
type Queue struct {
	mu       sync.Mutex
	pending  []Key
	capacity int
	status   string
	listener SoundListener
	dropped  uint64
}

// NewQueue создаёт очередь ввода ограниченной ёмкости
func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = 64
	}
	return &Queue{capacity: capacity}
}

// Enqueue добавляет клавиши в очередь. Возвращает число принятых клавиш;
// клавиши сверх ёмкости отбрасываются.
func (q *Queue) Enqueue(keys ...Key) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	accepted := 0
	for _, k := range keys {
		if len(q.pending) >= q.capacity {
			q.dropped++
			continue
		}
		q.pending = append(q.pending, k)
		accepted++
	}
	return accepted
}

// Pending возвращает число клавиш в очереди
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

func (q *Queue) PollKey() (Key, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.pending) == 0 {
		return KeyNone, false
	}
	k := q.pending[0]
	q.pending = q.pending[1:]
	// KeyNone в очереди означает "пропустить тик"
	return k, k != KeyNone
}

// OnSound регистрирует слушателя звуков
func (q *Queue) OnSound(l SoundListener) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.listener = l
}

func (q *Queue) PlaySound(s Sound) {
	q.mu.Lock()
	l := q.listener
	q.mu.Unlock()
	if l != nil {
		l(s)
	}
}

func (q *Queue) SetStatusText(text string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.status = text
}

// Status возвращает последнюю строку статуса
func (q *Queue) Status() string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.status
}
