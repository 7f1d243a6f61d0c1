// Package host описывает внешнего исполнителя игры: опрос клавиш,
// проигрывание звуков и строку статуса. Симуляция только вызывает эти методы.
package host

import (
	"fmt"
	"strings"
)

// Key представляет нажатую клавишу
type Key uint8

const (
	KeyNone Key = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeySpace
	KeyEscape
)

// String возвращает имя клавиши
func (k Key) String() string {
	switch k {
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	case KeySpace:
		return "space"
	case KeyEscape:
		return "escape"
	default:
		return "none"
	}
}

// Sound представляет звуковой эффект
type Sound uint8

const (
	SoundNone Sound = iota
	SoundPlayerFire
	SoundEnemyFire
	SoundPlayerImpact
	SoundRobotImpact
	SoundPlayerDie
	SoundRobotDie
	SoundRobotMunch
	SoundRobotBorn
	SoundGotGoodie
	SoundRevealExit
	SoundFinishedLevel
)

var soundNames = map[Sound]string{
	SoundNone:          "none",
	SoundPlayerFire:    "player_fire",
	SoundEnemyFire:     "enemy_fire",
	SoundPlayerImpact:  "player_impact",
	SoundRobotImpact:   "robot_impact",
	SoundPlayerDie:     "player_die",
	SoundRobotDie:      "robot_die",
	SoundRobotMunch:    "robot_munch",
	SoundRobotBorn:     "robot_born",
	SoundGotGoodie:     "got_goodie",
	SoundRevealExit:    "reveal_exit",
	SoundFinishedLevel: "finished_level",
}

// String возвращает имя звука
func (s Sound) String() string {
	if name, ok := soundNames[s]; ok {
		return name
	}
	return fmt.Sprintf("sound_%d", uint8(s))
}

// Host - контракт внешнего окружения, которое отрисовывает игру и принимает ввод
type Host interface {
	// PollKey возвращает клавишу, нажатую с прошлого тика, если она есть
	PollKey() (Key, bool)

	// PlaySound проигрывает звуковой эффект
	PlaySound(s Sound)

	// SetStatusText выводит строку статуса над полем
	SetStatusText(text string)
}

// ParseKey разбирает одно имя клавиши или однобуквенное сокращение
// (w/a/s/d, пробел или f - выстрел, q - escape, "." - пропуск тика).
func ParseKey(token string) (Key, error) {
	switch strings.ToLower(token) {
	case "up", "w":
		return KeyUp, nil
	case "down", "s":
		return KeyDown, nil
	case "left", "a":
		return KeyLeft, nil
	case "right", "d":
		return KeyRight, nil
	case "space", "fire", "f", " ":
		return KeySpace, nil
	case "escape", "esc", "q":
		return KeyEscape, nil
	case "none", ".", "-":
		return KeyNone, nil
	}
	return KeyNone, fmt.Errorf("неизвестная клавиша %q", token)
}

// ParseKeys разбирает скрипт клавиш. Поддерживается два формата:
// слова через пробел/запятую ("up up fire") или компактная строка ("wwd.f").
func ParseKeys(script string) ([]Key, error) {
	script = strings.TrimSpace(script)
	if script == "" {
		return nil, nil
	}

	var tokens []string
	if strings.ContainsAny(script, " ,") {
		tokens = strings.FieldsFunc(script, func(r rune) bool { return r == ' ' || r == ',' })
	} else {
		for _, r := range script {
			tokens = append(tokens, string(r))
		}
	}

	keys := make([]Key, 0, len(tokens))
	for _, tok := range tokens {
		k, err := ParseKey(tok)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, nil
}
