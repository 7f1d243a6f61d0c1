package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/dgraph-io/badger/v3"
	"github.com/klauspost/compress/zstd"
)

// Префикс ключей результатов в BadgerDB
const badgerResultPrefix = "result:"

// BadgerLeaderboard хранит результаты в BadgerDB.
// Значения - JSON, сжатый zstd.
type BadgerLeaderboard struct {
	db      *badger.DB
	mutex   sync.RWMutex
	isReady bool

	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewBadgerLeaderboard открывает БД в каталоге dataPath/leaderboard.
func NewBadgerLeaderboard(dataPath string) (*BadgerLeaderboard, error) {
	opts := badger.DefaultOptions(filepath.Join(dataPath, "leaderboard"))
	return openBadgerLeaderboard(opts)
}

// NewInMemoryBadgerLeaderboard открывает BadgerDB без диска (тесты).
func NewInMemoryBadgerLeaderboard() (*BadgerLeaderboard, error) {
	return openBadgerLeaderboard(badger.DefaultOptions("").WithInMemory(true))
}

func openBadgerLeaderboard(opts badger.Options) (*BadgerLeaderboard, error) {
	opts.Logger = nil // Отключаем логирование BadgerDB

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть BadgerDB: %w", err)
	}

	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		encoder.Close()
		db.Close()
		return nil, fmt.Errorf("zstd decoder: %w", err)
	}

	return &BadgerLeaderboard{
		db:      db,
		isReady: true,
		encoder: encoder,
		decoder: decoder,
	}, nil
}

// Save сериализует результат, сжимает и записывает по ключу result:<sessionID>
func (b *BadgerLeaderboard) Save(ctx context.Context, r Result) error {
	if err := validate(r); err != nil {
		return err
	}

	b.mutex.RLock()
	defer b.mutex.RUnlock()

	if !b.isReady {
		return fmt.Errorf("хранилище не готово")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("ошибка сериализации результата: %w", err)
	}
	compressed := b.encoder.EncodeAll(data, nil)

	key := []byte(badgerResultPrefix + r.SessionID)
	err = b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, compressed)
	})
	if err != nil {
		return fmt.Errorf("ошибка сохранения результата %s: %w", r.SessionID, err)
	}

	return nil
}

// Top читает все результаты по префиксу и ранжирует их
func (b *BadgerLeaderboard) Top(ctx context.Context, n int) ([]Result, error) {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	if !b.isReady {
		return nil, fmt.Errorf("хранилище не готово")
	}

	var results []Result
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(badgerResultPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var r Result
			err := it.Item().Value(func(val []byte) error {
				data, err := b.decoder.DecodeAll(val, nil)
				if err != nil {
					return fmt.Errorf("zstd: %w", err)
				}
				return json.Unmarshal(data, &r)
			})
			if err != nil {
				return fmt.Errorf("ошибка чтения %s: %w", it.Item().Key(), err)
			}
			results = append(results, r)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return rank(results, n), nil
}

// Close закрывает хранилище
func (b *BadgerLeaderboard) Close() error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if !b.isReady {
		return nil
	}

	b.isReady = false
	b.encoder.Close()
	b.decoder.Close()
	return b.db.Close()
}
