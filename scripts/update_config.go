package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sisoputnfrba/tp-2025-2c-Los-magiOS/utils/config"
)

// Para su uso se debe posicionar en la carpeta scripts
// > ./update_config ip_kernel 192.168.1.100
// > ./update_config ip_kernel 127.0.0.1 port_kernel 8001 log_level INFO

func main() {
	// Los argumentos van en pares: clave1 valor1 clave2 valor2 ...
	if len(os.Args) < 3 || len(os.Args)%2 != 1 {
		fmt.Println("Uso: update_config <clave_1> <valor_1> [<clave_2> <valor_2> ...]")
		fmt.Println("Ejemplo: update_config ip_kernel 192.168.0.20 tlb_replacement FIFO")
		return
	}

	updates := make(map[string]any)
	for i := 1; i < len(os.Args); i += 2 {
		var parsedValue any
		// Números y booleanos conservan su tipo, el resto (por ejemplo una IP) queda como string
		if err := json.Unmarshal([]byte(os.Args[i+1]), &parsedValue); err != nil {
			parsedValue = os.Args[i+1]
		}
		updates[os.Args[i]] = parsedValue
	}

	for _, module := range []string{"cpu", "kernel"} {
		moduleConfigPath := filepath.Join("..", module, "configs")
		files, err := filepath.Glob(filepath.Join(moduleConfigPath, "*.json"))
		if err != nil {
			fmt.Printf("Error al buscar archivos en la carpeta %s: %v\n", moduleConfigPath, err)
			continue
		}

		for _, path := range files {
			modified, err := config.UpdateFields(path, updates)
			if err != nil {
				fmt.Printf("  %v\n", err)
				continue
			}
			if len(modified) == 0 {
				fmt.Printf("  No se encontraron claves a actualizar en %s.\n", path)
				continue
			}
			fmt.Printf("  %s actualizado: %s\n", path, strings.Join(modified, ", "))
		}
	}
}
