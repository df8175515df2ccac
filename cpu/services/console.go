package services

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	kernelModel "github.com/sisoputnfrba/tp-2025-2c-Los-magiOS/kernel/models"
)

// LineReader entrega una instrucción por vez, por ejemplo desde la terminal.
type LineReader interface {
	ReadString() (string, error)
}

// RunInteractive ejecuta instrucciones a medida que se leen hasta EXIT, SALIR o fin de entrada.
// Una línea inválida se informa y se descarta sin cortar la sesión.
func (c *SyscallClient) RunInteractive(pid uint, reader LineReader, output io.Writer) error {
	for {
		fmt.Fprintf(output, "PID %d> ", pid)
		line, err := reader.ReadString()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.EqualFold(line, "SALIR") {
			return nil
		}

		instruction, err := ParseInstruction(line)
		if err != nil {
			fmt.Fprintln(output, err)
			continue
		}
		result, err := c.Syscall(pid, instruction)
		if err != nil {
			return err
		}
		slog.Debug("Instrucción interactiva", "pid", pid, "instruccion", instruction.Name, "resultado", result)
		fmt.Fprintf(output, "%s = %d\n", instruction.Name, result)

		if instruction.SyscallID == kernelModel.SyscallExit {
			return nil
		}
	}
}
