package services

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sisoputnfrba/tp-2025-2c-Los-magiOS/cpu/models"
	kernelModel "github.com/sisoputnfrba/tp-2025-2c-Los-magiOS/kernel/models"
)

// Cantidad de argumentos que espera cada instrucción
var instructionArgs = map[int]int{
	kernelModel.SyscallExit:     1,
	kernelModel.SyscallYield:    0,
	kernelModel.SyscallGetTime:  1,
	kernelModel.SyscallTaskInfo: 1,
	kernelModel.SyscallMmap:     3,
	kernelModel.SyscallMunmap:   2,
	kernelModel.SyscallSbrk:     1,
}

// ParseInstruction traduce una línea del tipo "MMAP 0x40000 4096 3" a la syscall correspondiente.
// Los números pueden ser decimales o hexadecimales con prefijo 0x, y SBRK y EXIT aceptan negativos.
func ParseInstruction(line string) (models.Instruction, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return models.Instruction{}, fmt.Errorf("%w: línea vacía", models.ErrInvalidInstruction)
	}

	name := strings.ToUpper(fields[0])
	id, ok := kernelModel.SyscallByName(name)
	if !ok {
		return models.Instruction{}, fmt.Errorf("%w: %s", models.ErrInvalidInstruction, fields[0])
	}
	if len(fields)-1 != instructionArgs[id] {
		return models.Instruction{}, fmt.Errorf("%w: %s espera %d argumentos", models.ErrInvalidInstruction, name, instructionArgs[id])
	}

	instruction := models.Instruction{Name: name, SyscallID: id}
	for i, field := range fields[1:] {
		value, err := parseArgument(field)
		if err != nil {
			return models.Instruction{}, fmt.Errorf("%w: %s: %v", models.ErrInvalidInstruction, name, err)
		}
		instruction.Args[i] = value
	}
	return instruction, nil
}

func parseArgument(field string) (uint64, error) {
	if strings.HasPrefix(field, "-") {
		value, err := strconv.ParseInt(field, 0, 64)
		return uint64(value), err
	}
	return strconv.ParseUint(field, 0, 64)
}

// ParseScript lee un programa completo. Se ignoran líneas vacías y comentarios con #.
func ParseScript(reader io.Reader) ([]models.Instruction, error) {
	var instructions []models.Instruction
	scanner := bufio.NewScanner(reader)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		instruction, err := ParseInstruction(line)
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", lineNumber, err)
		}
		instructions = append(instructions, instruction)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return instructions, nil
}
