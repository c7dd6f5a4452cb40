package backends

import (
	"github.com/shirou/gopsutil/v4/mem"
	log "github.com/sirupsen/logrus"
)

const gib = 1024 * 1024 * 1024

// ChooseModel picks a default Ollama model sized to the machine's memory, or
// returns the override unchanged. When memory cannot be detected it falls back
// to the smallest model.
func ChooseModel(override string) string {
	if override != "" {
		return override
	}
	vm, err := mem.VirtualMemory()
	if err != nil || vm == nil {
		log.Debugf("could not detect system memory: %v", err)
		return "llama3.2:1b-instruct-q4_K_M"
	}
	switch {
	case vm.Total > 30*gib:
		return "gpt-oss:20b"
	case vm.Total > 14*gib:
		return "phi4:14b-q4_K_M"
	case vm.Total > 4*gib:
		return "llama3.2:3b-instruct-q5_K_M"
	default:
		return "llama3.2:1b-instruct-q4_K_M"
	}
}
