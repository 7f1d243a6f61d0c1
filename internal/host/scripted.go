package host

import "sync"

// Scripted - headless-исполнитель: отдаёт по одной клавише из скрипта за тик
// и запоминает проигранные звуки и последнюю строку статуса.
type Scripted struct {
	mu     sync.Mutex
	keys   []Key
	next   int
	sounds []Sound
	status string
}

// NewScripted создаёт исполнителя с указанной последовательностью клавиш
func NewScripted(keys ...Key) *Scripted {
	return &Scripted{keys: keys}
}

// PollKey возвращает следующую клавишу скрипта. KeyNone означает "ничего не нажато".
func (s *Scripted) PollKey() (Key, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.next >= len(s.keys) {
		return KeyNone, false
	}
	k := s.keys[s.next]
	s.next++
	if k == KeyNone {
		return KeyNone, false
	}
	return k, true
}

// Push добавляет клавиши в конец скрипта
func (s *Scripted) Push(keys ...Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys = append(s.keys, keys...)
}

// Remaining возвращает число ещё не прочитанных клавиш
func (s *Scripted) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.keys) - s.next
}

func (s *Scripted) PlaySound(snd Sound) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sounds = append(s.sounds, snd)
}

func (s *Scripted) SetStatusText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = text
}

// Sounds возвращает копию списка проигранных звуков
func (s *Scripted) Sounds() []Sound {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Sound, len(s.sounds))
	copy(out, s.sounds)
	return out
}

// CountSound возвращает, сколько раз проигрывался звук
func (s *Scripted) CountSound(snd Sound) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, x := range s.sounds {
		if x == snd {
			n++
		}
	}
	return n
}

// Status возвращает последнюю строку статуса
func (s *Scripted) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}
