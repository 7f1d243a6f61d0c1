package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/annel0/robomaze/internal/world/level"
)

func main() {
	var (
		outDir    = flag.String("out", "assets", "Каталог для файлов levelNN.txt")
		seed      = flag.Int64("seed", 1, "Сид первого уровня (следующие: seed+1, seed+2...)")
		start     = flag.Int("start", 0, "Номер первого уровня")
		count     = flag.Int("count", 1, "Количество уровней")
		crystals  = flag.Int("crystals", 5, "Кристаллов на уровень")
		ragebots  = flag.Int("ragebots", 2, "Роботов-берсерков на уровень")
		factories = flag.Int("factories", 1, "Фабрик воров на уровень")
		threshold = flag.Float64("walls", 0.62, "Порог шума для стен (0..1, больше - меньше стен)")
		force     = flag.Bool("force", false, "Перезаписывать существующие файлы")
		toStdout  = flag.Bool("print", false, "Печатать уровни в stdout вместо записи")
	)
	flag.Parse()

	opts := level.DefaultGenOptions()
	opts.Crystals = *crystals
	opts.RageBots = *ragebots
	opts.Factories = *factories
	opts.WallThreshold = *threshold

	if !*toStdout {
		if err := os.MkdirAll(*outDir, 0o755); err != nil {
			log.Fatalf("❌ Не удалось создать каталог %s: %v", *outDir, err)
		}
	}

	for i := 0; i < *count; i++ {
		n := *start + i
		lvl := level.NewGenerator(*seed+int64(i), opts).Generate()
		if err := lvl.Validate(); err != nil {
			log.Fatalf("❌ Уровень %d не прошёл проверку: %v", n, err)
		}
		text := level.Format(lvl)

		if *toStdout {
			fmt.Printf("%s\n%s\n", level.Name(n), text)
			continue
		}

		path := filepath.Join(*outDir, level.Name(n))
		if _, err := os.Stat(path); err == nil && !*force {
			log.Printf("⚠️ %s уже существует, пропуск (используйте -force)", path)
			continue
		}
		if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
			log.Fatalf("❌ Ошибка записи %s: %v", path, err)
		}
		log.Printf("✅ %s: кристаллов %d, роботов %d", path, lvl.Count(level.Crystal), lvl.Count(level.HorizRageBot)+lvl.Count(level.VertRageBot))
	}
}
