package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/sisoputnfrba/tp-2025-2c-Los-magiOS/cpu/models"
	kernelModel "github.com/sisoputnfrba/tp-2025-2c-Los-magiOS/kernel/models"
)

func TestParseInstruction(t *testing.T) {
	tests := []struct {
		line string
		id   int
		args [3]uint64
	}{
		{"GET_TIME 0x40000", kernelModel.SyscallGetTime, [3]uint64{0x40000}},
		{"task_info 4096", kernelModel.SyscallTaskInfo, [3]uint64{4096}},
		{"MMAP 0x40000 8192 3", kernelModel.SyscallMmap, [3]uint64{0x40000, 8192, 3}},
		{"MUNMAP 0x40000 8192", kernelModel.SyscallMunmap, [3]uint64{0x40000, 8192}},
		{"SBRK -16", kernelModel.SyscallSbrk, [3]uint64{^uint64(15)}},
		{"YIELD", kernelModel.SyscallYield, [3]uint64{}},
		{"  EXIT   3 ", kernelModel.SyscallExit, [3]uint64{3}},
	}

	for _, test := range tests {
		instruction, err := ParseInstruction(test.line)
		if err != nil {
			t.Errorf("%q: unexpected error: %v", test.line, err)
			continue
		}
		if instruction.SyscallID != test.id || instruction.Args != test.args {
			t.Errorf("%q: expected id %d args %v, got %d %v", test.line, test.id, test.args, instruction.SyscallID, instruction.Args)
		}
	}
}

func TestParseInstruction_Invalid(t *testing.T) {
	for _, line := range []string{"", "READ 0x10", "MMAP 0x40000 10", "YIELD 1", "SBRK diez", "GET_TIME 0xZZ"} {
		if _, err := ParseInstruction(line); !errors.Is(err, models.ErrInvalidInstruction) {
			t.Errorf("%q: expected ErrInvalidInstruction, got: %v", line, err)
		}
	}
}

func TestParseScript(t *testing.T) {
	script := `# programa de prueba
MMAP 0x40000 4096 3

GET_TIME 0x40000
EXIT 0
`
	instructions, err := ParseScript(strings.NewReader(script))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(instructions) != 3 || instructions[2].Name != "EXIT" {
		t.Errorf("Unexpected instructions: %+v", instructions)
	}

	_, err = ParseScript(strings.NewReader("YIELD\nSALTAR 3\n"))
	if err == nil || !strings.Contains(err.Error(), "línea 2") {
		t.Errorf("Expected error on line 2, got: %v", err)
	}
}
