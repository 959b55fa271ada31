package ui

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

const (
	Reset  = "\033[0m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Blue   = "\033[34m"
	Purple = "\033[35m"
	Cyan   = "\033[36m"
	Gray   = "\033[37m"
	Bold   = "\033[1m"
)

var mu sync.Mutex

func PrintBanner() {
	banner := `
  _____
 / ____|
| (___   ___ _ __ _ __   ___ _ __  ___
 \___ \ / _ \ '__| '_ \ / _ \ '_ \/ __|
 ____) |  __/ |  | |_) |  __/ | | \__ \
|_____/ \___|_|  | .__/ \___|_| |_|___/
                 | |
                 |_|
`
	fmt.Println(Cyan + banner + Reset)
	fmt.Println(Gray + "  v1.0.0 - Solidity Smart Contract Vulnerability Injection Engine" + Reset)
	fmt.Println()
}

func clearLine() {
	fmt.Print("\r\033[K")
}

func LogSuccess(format string, a ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	clearLine()
	fmt.Printf(Green+"[SUCCESS] "+Reset+format+"\n", a...)
}

func LogInjected(path string, vulnType string, template string) {
	mu.Lock()
	defer mu.Unlock()
	clearLine()
	fmt.Printf(Purple+"[INJECTED] "+Reset+"%s | Type: %s | Template: %s\n", path, vulnType, template)
}

func LogError(format string, a ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	clearLine()
	fmt.Printf(Red+"[ERROR] "+Reset+format+"\n", a...)
}

func PrintStats(total, success, failed, verified int, duration time.Duration) {
	fmt.Println()
	fmt.Println(Gray + strings.Repeat("─", 50) + Reset)
	fmt.Printf("🏁 Injection Completed in %s\n", duration)
	fmt.Printf("📊 Total: %d | ✅ Injected: %d | ❌ Failed: %d | 🛡️  Verified: %d\n", total, success, failed, verified)
	fmt.Println(Gray + strings.Repeat("─", 50) + Reset)
}
