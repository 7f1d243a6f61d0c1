package api

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// ServerMetrics собирает сведения о процессе и системе через gopsutil
type ServerMetrics struct {
	StartTime time.Time
	proc      *process.Process
}

// ServerInfo - ответ /api/server
type ServerInfo struct {
	Name          string  `json:"name"`
	Status        string  `json:"status"`
	Uptime        string  `json:"uptime"`
	Goroutines    int     `json:"goroutines"`
	HeapMB        float64 `json:"heap_mb"`
	ProcessRSSMB  float64 `json:"process_rss_mb,omitempty"`
	ProcessCPU    float64 `json:"process_cpu_percent"`
	SystemMemUsed float64 `json:"system_mem_used_percent,omitempty"`
	NumCPU        int     `json:"num_cpu"`
}

// NewServerMetrics создает новый экземпляр метрик
func NewServerMetrics() *ServerMetrics {
	sm := &ServerMetrics{StartTime: time.Now()}
	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		sm.proc = proc
	}
	return sm
}

// GetUptime возвращает время работы сервера
func (sm *ServerMetrics) GetUptime() string {
	uptime := time.Since(sm.StartTime)

	days := int(uptime.Hours()) / 24
	hours := int(uptime.Hours()) % 24
	minutes := int(uptime.Minutes()) % 60
	seconds := int(uptime.Seconds()) % 60

	if days > 0 {
		return fmt.Sprintf("%dд %dч %dм %dс", days, hours, minutes, seconds)
	} else if hours > 0 {
		return fmt.Sprintf("%dч %dм %dс", hours, minutes, seconds)
	} else if minutes > 0 {
		return fmt.Sprintf("%dм %dс", minutes, seconds)
	}
	return fmt.Sprintf("%dс", seconds)
}

// GetCPUUsage возвращает использование CPU процессом в процентах
func (sm *ServerMetrics) GetCPUUsage() (float64, error) {
	if sm.proc != nil {
		if pct, err := sm.proc.CPUPercent(); err == nil {
			return pct, nil
		}
	}

	// Если не удалось получить метрику процесса, попробуем системную
	cpuPercents, err := cpu.Percent(0, false)
	if err != nil || len(cpuPercents) == 0 {
		return 0, err
	}
	return cpuPercents[0], nil
}

// Collect возвращает текущие сведения о сервере. Ошибки gopsutil не фатальны:
// недоступные значения остаются нулевыми.
func (sm *ServerMetrics) Collect() ServerInfo {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	info := ServerInfo{
		Name:       "robomaze",
		Status:     "running",
		Uptime:     sm.GetUptime(),
		Goroutines: runtime.NumGoroutine(),
		HeapMB:     float64(m.HeapAlloc) / 1024 / 1024,
		NumCPU:     runtime.NumCPU(),
	}

	info.ProcessCPU, _ = sm.GetCPUUsage()
	if sm.proc != nil {
		if memInfo, err := sm.proc.MemoryInfo(); err == nil {
			info.ProcessRSSMB = float64(memInfo.RSS) / 1024 / 1024
		}
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		info.SystemMemUsed = vm.UsedPercent
	}

	return info
}
