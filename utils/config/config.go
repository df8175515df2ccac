package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// InitConfig lee el archivo de configuración y carga sus valores en config. Si el archivo no existe o
// no es un JSON válido finaliza con panic, ya que ningún módulo puede arrancar sin su configuración.
//
// Parámetros:
//   - filePath: ubicacion donde se encuentra el archivo de configuracion
//   - config: puntero a cualquier tipo de estructura
//
// Ejemplo:
//
//	type TestConfig struct {
//		Name  string `json:"name"`
//		Value int    `json:"value"`
//	}
//	func main() {
//		var testConfig TestConfig
//		config.InitConfig("./test.json", &testConfig)
//	}
func InitConfig(filePath string, config any) {
	if err := LoadConfig(filePath, config); err != nil {
		panic(err)
	}
}

// LoadConfig es la versión de InitConfig que retorna el error en lugar de abortar.
func LoadConfig(filePath string, config any) error {
	configFile, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("error al abrir el archivo de configuración %s: %w", filePath, err)
	}
	defer configFile.Close()

	jsonParser := json.NewDecoder(configFile)
	jsonParser.DisallowUnknownFields()

	if err := jsonParser.Decode(config); err != nil {
		return fmt.Errorf("error al decodificar %s: %w", filePath, err)
	}

	return nil
}

// UpdateFields reemplaza en el JSON de filePath los valores de las claves de primer nivel que ya existan.
// Las claves que el archivo no tiene se ignoran. Retorna las claves modificadas.
func UpdateFields(filePath string, updates map[string]any) ([]string, error) {
	fileContent, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error al leer %s: %w", filePath, err)
	}

	var data map[string]any
	if err := json.Unmarshal(fileContent, &data); err != nil {
		return nil, fmt.Errorf("error al parsear JSON en %s: %w", filePath, err)
	}

	var modified []string
	for key, value := range updates {
		if _, ok := data[key]; ok {
			data[key] = value
			modified = append(modified, key)
		}
	}
	if len(modified) == 0 {
		return nil, nil
	}
	sort.Strings(modified)

	newJSON, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("error al serializar JSON en %s: %w", filePath, err)
	}
	if err := os.WriteFile(filePath, newJSON, 0644); err != nil {
		return nil, fmt.Errorf("error al escribir %s: %w", filePath, err)
	}
	return modified, nil
}
