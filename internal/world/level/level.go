// Package level читает файлы уровней levelNN.txt и отдаёт сетку типов клеток.
//
// Формат файла: 15 строк по 15 символов, первая строка соответствует y=14.
//
//	@ игрок          # стена            x выход
//	b мрамор         o яма              * кристалл
//	e доп. жизнь     h здоровье         a горошины
//	- буян (гориз.)  | буян (верт.)     1 фабрика воров
//	2 фабрика злых воров                ' ' или . пусто
package level

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Размеры уровня
const (
	Width  = 15
	Height = 15
)

// MazeEntry - тип клетки уровня
type MazeEntry uint8

const (
	Empty MazeEntry = iota
	PlayerStart
	Wall
	Exit
	Marble
	Pit
	Crystal
	ExtraLife
	RestoreHealth
	Ammo
	HorizRageBot
	VertRageBot
	ThiefBotFactory
	MeanThiefBotFactory
)

var entryChars = map[MazeEntry]byte{
	Empty:               '.',
	PlayerStart:         '@',
	Wall:                '#',
	Exit:                'x',
	Marble:              'b',
	Pit:                 'o',
	Crystal:             '*',
	ExtraLife:           'e',
	RestoreHealth:       'h',
	Ammo:                'a',
	HorizRageBot:        '-',
	VertRageBot:         '|',
	ThiefBotFactory:     '1',
	MeanThiefBotFactory: '2',
}

var charEntries = func() map[byte]MazeEntry {
	m := make(map[byte]MazeEntry, len(entryChars)+1)
	for e, c := range entryChars {
		m[c] = e
	}
	m[' '] = Empty
	return m
}()

// Char возвращает символ клетки в текстовом формате
func (e MazeEntry) Char() byte {
	if c, ok := entryChars[e]; ok {
		return c
	}
	return '?'
}

// LoadResult - результат загрузки уровня
type LoadResult int

const (
	LoadSuccess LoadResult = iota
	LoadNotFound
	LoadBadFormat
)

func (r LoadResult) String() string {
	switch r {
	case LoadSuccess:
		return "success"
	case LoadNotFound:
		return "not found"
	case LoadBadFormat:
		return "bad format"
	}
	return "unknown"
}

// Ошибки разбора уровня
var (
	ErrBadDimensions = errors.New("level must be 15x15")
	ErrUnknownTile   = errors.New("unknown tile")
	ErrPlayerCount   = errors.New("level must contain exactly one player")
	ErrOpenBorder    = errors.New("level border must be walled")
)

// Level - сетка типов клеток
type Level struct {
	grid [Height][Width]MazeEntry
}

// New возвращает пустой уровень
func New() *Level {
	return &Level{}
}

// At возвращает тип клетки; за пределами уровня - Empty
func (l *Level) At(x, y int) MazeEntry {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return Empty
	}
	return l.grid[y][x]
}

// Set задаёт тип клетки; координаты за пределами уровня игнорируются
func (l *Level) Set(x, y int, e MazeEntry) {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return
	}
	l.grid[y][x] = e
}

// Count возвращает число клеток указанного типа
func (l *Level) Count(e MazeEntry) int {
	n := 0
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			if l.grid[y][x] == e {
				n++
			}
		}
	}
	return n
}

// Validate проверяет, что на уровне ровно один игрок и граница закрыта стенами
func (l *Level) Validate() error {
	if n := l.Count(PlayerStart); n != 1 {
		return fmt.Errorf("%w: found %d", ErrPlayerCount, n)
	}
	for i := 0; i < Width; i++ {
		if l.grid[0][i] != Wall || l.grid[Height-1][i] != Wall {
			return fmt.Errorf("%w: column %d", ErrOpenBorder, i)
		}
	}
	for i := 0; i < Height; i++ {
		if l.grid[i][0] != Wall || l.grid[i][Width-1] != Wall {
			return fmt.Errorf("%w: row %d", ErrOpenBorder, i)
		}
	}
	return nil
}

// Parse разбирает текстовое представление уровня
func Parse(text string) (*Level, error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if len(lines) != Height {
		return nil, fmt.Errorf("%w: %d lines", ErrBadDimensions, len(lines))
	}

	l := New()
	for row, line := range lines {
		if len(line) != Width {
			return nil, fmt.Errorf("%w: line %d has %d chars", ErrBadDimensions, row+1, len(line))
		}
		y := Height - 1 - row
		for x := 0; x < Width; x++ {
			e, ok := charEntries[line[x]]
			if !ok {
				return nil, fmt.Errorf("%w %q at line %d col %d", ErrUnknownTile, line[x], row+1, x+1)
			}
			l.grid[y][x] = e
		}
	}

	if err := l.Validate(); err != nil {
		return nil, err
	}
	return l, nil
}

// Format возвращает текстовое представление уровня (обратное Parse)
func Format(l *Level) string {
	var sb strings.Builder
	sb.Grow((Width + 1) * Height)
	for y := Height - 1; y >= 0; y-- {
		for x := 0; x < Width; x++ {
			sb.WriteByte(l.grid[y][x].Char())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Name возвращает имя файла уровня: level00.txt, level01.txt, ...
func Name(n int) string {
	return fmt.Sprintf("level%02d.txt", n)
}

// Loader загружает уровень по имени файла
type Loader interface {
	Load(name string) (*Level, LoadResult)
}

// FileLoader читает уровни из каталога
type FileLoader struct {
	Dir string
}

// Load читает и разбирает файл уровня
func (fl FileLoader) Load(name string) (*Level, LoadResult) {
	data, err := os.ReadFile(filepath.Join(fl.Dir, name))
	if err != nil {
		return nil, LoadNotFound
	}
	l, err := Parse(string(data))
	if err != nil {
		return nil, LoadBadFormat
	}
	return l, LoadSuccess
}

// LoadFile читает уровень и возвращает подробную ошибку разбора
func LoadFile(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения уровня %s: %w", path, err)
	}
	l, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("ошибка разбора уровня %s: %w", path, err)
	}
	return l, nil
}

// MapLoader держит тексты уровней в памяти (имя файла -> содержимое)
type MapLoader map[string]string

// Load разбирает уровень из памяти
func (ml MapLoader) Load(name string) (*Level, LoadResult) {
	text, ok := ml[name]
	if !ok {
		return nil, LoadNotFound
	}
	l, err := Parse(text)
	if err != nil {
		return nil, LoadBadFormat
	}
	return l, LoadSuccess
}
