package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sisoputnfrba/tp-2025-2c-Los-magiOS/cpu/models"
	kernelModel "github.com/sisoputnfrba/tp-2025-2c-Los-magiOS/kernel/models"
	"github.com/sisoputnfrba/tp-2025-2c-Los-magiOS/utils/web/client"
)

// SyscallClient ejecuta programas de usuario contra el kernel, enviando cada instrucción como syscall.
type SyscallClient struct {
	config *models.Config
}

func NewSyscallClient(cpuConfig *models.Config) *SyscallClient {
	return &SyscallClient{config: cpuConfig}
}

// Spawn pide al kernel que cree una tarea y devuelve su PID.
func (c *SyscallClient) Spawn(name string, imageSize int) (uint, error) {
	body, err := json.Marshal(kernelModel.SpawnRequest{Name: name, ImageSize: imageSize})
	if err != nil {
		return 0, err
	}

	response, err := client.DoRequest(c.config.PortKernel, c.config.IpKernel, "POST", "kernel/tareas", body)
	if response != nil {
		defer response.Body.Close()
	}
	if err != nil {
		return 0, fmt.Errorf("no se pudo crear la tarea %s: %w", name, err)
	}

	var spawnResponse kernelModel.SpawnResponse
	if err := json.NewDecoder(response.Body).Decode(&spawnResponse); err != nil {
		return 0, fmt.Errorf("respuesta inválida del kernel: %w", err)
	}
	return spawnResponse.PID, nil
}

// Syscall envía la instrucción en nombre de pid. Si la tarea todavía no tiene la CPU se reintenta
// cada RetryDelay milisegundos hasta MaxRetries veces.
func (c *SyscallClient) Syscall(pid uint, instruction models.Instruction) (int64, error) {
	body, err := json.Marshal(kernelModel.SyscallRequest{PID: pid, ID: instruction.SyscallID, Args: instruction.Args})
	if err != nil {
		return -1, err
	}

	for attempt := 0; ; attempt++ {
		result, err := c.send(body)
		if !errors.Is(err, models.ErrTaskNotRunning) {
			return result, err
		}
		if attempt >= c.config.MaxRetries {
			return -1, fmt.Errorf("PID %d - %s: %w", pid, instruction.Name, err)
		}
		slog.Debug("La tarea espera la CPU", "pid", pid, "intento", attempt+1)
		time.Sleep(time.Duration(c.config.RetryDelay) * time.Millisecond)
	}
}

func (c *SyscallClient) send(body []byte) (int64, error) {
	response, err := client.DoRequest(c.config.PortKernel, c.config.IpKernel, "POST", "kernel/syscall", body)
	if response != nil {
		defer response.Body.Close()
	}
	if response != nil && response.StatusCode == http.StatusConflict {
		return -1, models.ErrTaskNotRunning
	}
	if err != nil {
		return -1, err
	}

	var syscallResponse kernelModel.SyscallResponse
	if err := json.NewDecoder(response.Body).Decode(&syscallResponse); err != nil {
		return -1, fmt.Errorf("respuesta inválida del kernel: %w", err)
	}
	return syscallResponse.Result, nil
}

// RunScript ejecuta las instrucciones en orden y se detiene después de EXIT.
// Devuelve los resultados de cada syscall ejecutada.
func (c *SyscallClient) RunScript(pid uint, instructions []models.Instruction) ([]int64, error) {
	results := make([]int64, 0, len(instructions))
	for _, instruction := range instructions {
		result, err := c.Syscall(pid, instruction)
		if err != nil {
			return results, err
		}
		results = append(results, result)
		slog.Info(fmt.Sprintf("## PID: %d - Ejecutando: %s - %v - Resultado: %d", pid, instruction.Name, instruction.Args, result))

		if instruction.SyscallID == kernelModel.SyscallExit {
			break
		}
	}
	return results, nil
}
