package services

import (
	"fmt"
	"sort"

	"github.com/sisoputnfrba/tp-2025-2c-Los-magiOS/memoria/models"
)

// PageTable es la tabla multinivel de un proceso. Las tablas intermedias se crean a demanda al mapear
// y se eliminan cuando quedan vacías.
type PageTable struct {
	root            *models.PageTableLevel
	levels          int
	entriesPerLevel int
	mappedPages     int
}

func NewPageTable(levels int, entriesPerLevel int) *PageTable {
	return &PageTable{
		root:            newPageTableLevel(),
		levels:          levels,
		entriesPerLevel: entriesPerLevel,
	}
}

// Crea un nivel intermedio. Las hojas se guardan dentro de SubTables del último nivel intermedio.
func newPageTableLevel() *models.PageTableLevel {
	return &models.PageTableLevel{
		IsLeaf:    false,
		SubTables: make(map[int]*models.PageTableLevel),
	}
}

// MaxPages es la cantidad de páginas direccionables con esta tabla.
func (table *PageTable) MaxPages() int {
	return intPow(table.entriesPerLevel, table.levels)
}

func (table *PageTable) MappedPages() int {
	return table.mappedPages
}

// Map crea los niveles necesarios en la estructura multinivel hasta insertar una entrada en el último nivel.
func (table *PageTable) Map(pageNumber int, frame int, flags models.PTEFlags) error {
	if pageNumber < 0 || pageNumber >= table.MaxPages() {
		return fmt.Errorf("%w: %d", models.ErrPageOutOfRange, pageNumber)
	}
	indices := getPageIndices(pageNumber, table.levels, table.entriesPerLevel)

	current := table.root
	// Recorrer niveles excepto el último
	for level := 0; level < table.levels-1; level++ {
		idx := indices[level]
		next, exists := current.SubTables[idx]
		if !exists {
			next = newPageTableLevel()
			current.SubTables[idx] = next
		}
		current = next
	}

	// Último nivel (hoja): insertar PageEntry
	lastIdx := indices[table.levels-1]
	if _, exists := current.SubTables[lastIdx]; exists {
		return fmt.Errorf("%w: página %d", models.ErrPageAlreadyMapped, pageNumber)
	}
	current.SubTables[lastIdx] = &models.PageTableLevel{
		IsLeaf: true,
		Entry: &models.PageEntry{
			Frame: frame,
			Flags: flags | models.PTEValid,
		},
	}
	table.mappedPages++
	return nil
}

// Unmap elimina la hoja de la página y poda las tablas intermedias que quedan vacías.
func (table *PageTable) Unmap(pageNumber int) (models.PageEntry, error) {
	if pageNumber < 0 || pageNumber >= table.MaxPages() {
		return models.PageEntry{}, fmt.Errorf("%w: %d", models.ErrPageOutOfRange, pageNumber)
	}
	indices := getPageIndices(pageNumber, table.levels, table.entriesPerLevel)

	path := make([]*models.PageTableLevel, 0, table.levels)
	current := table.root
	for level := 0; level < table.levels-1; level++ {
		path = append(path, current)
		next, exists := current.SubTables[indices[level]]
		if !exists {
			return models.PageEntry{}, fmt.Errorf("%w: página %d", models.ErrPageNotMapped, pageNumber)
		}
		current = next
	}

	lastIdx := indices[table.levels-1]
	leaf, exists := current.SubTables[lastIdx]
	if !exists || leaf.Entry == nil {
		return models.PageEntry{}, fmt.Errorf("%w: página %d", models.ErrPageNotMapped, pageNumber)
	}
	delete(current.SubTables, lastIdx)
	table.mappedPages--

	// Podar niveles vacíos de abajo hacia arriba
	for level := len(path) - 1; level >= 0 && len(current.SubTables) == 0; level-- {
		delete(path[level].SubTables, indices[level])
		current = path[level]
	}

	return *leaf.Entry, nil
}

// Find devuelve la entrada de la página si está presente.
func (table *PageTable) Find(pageNumber int) (*models.PageEntry, error) {
	if pageNumber < 0 || pageNumber >= table.MaxPages() {
		return nil, fmt.Errorf("%w: %d", models.ErrPageOutOfRange, pageNumber)
	}
	currentLevel := table.root
	indices := getPageIndices(pageNumber, table.levels, table.entriesPerLevel)

	for i, index := range indices {
		nextLevel, exists := currentLevel.SubTables[index]
		if !exists || nextLevel == nil {
			return nil, fmt.Errorf("%w: nivel %d, índice %d", models.ErrPageNotMapped, i, index)
		}
		currentLevel = nextLevel
	}

	if !currentLevel.IsLeaf || currentLevel.Entry == nil || !currentLevel.Entry.Flags.Has(models.PTEValid) {
		return nil, fmt.Errorf("%w: página %d", models.ErrPageNotMapped, pageNumber)
	}
	return currentLevel.Entry, nil
}

// Pages devuelve todas las páginas mapeadas ordenadas por número de página.
func (table *PageTable) Pages() []models.MappedPage {
	pages := make([]models.MappedPage, 0, table.mappedPages)
	table.collect(table.root, 0, &pages)
	sort.Slice(pages, func(i, j int) bool { return pages[i].PageNumber < pages[j].PageNumber })
	return pages
}

func (table *PageTable) collect(level *models.PageTableLevel, prefix int, pages *[]models.MappedPage) {
	for idx, sub := range level.SubTables {
		pageNumber := prefix*table.entriesPerLevel + idx
		if sub.IsLeaf {
			*pages = append(*pages, models.MappedPage{
				PageNumber: pageNumber,
				Frame:      sub.Entry.Frame,
				Flags:      sub.Entry.Flags,
				Perms:      sub.Entry.Flags.String(),
			})
			continue
		}
		table.collect(sub, pageNumber, pages)
	}
}

// De acuerdo a la cantidad de niveles de la tabla y la cantidad de entradas por nivel.
func getPageIndices(pageNumber int, levels int, entriesPerLevel int) []int {
	indices := make([]int, levels)
	for i := levels - 1; i >= 0; i-- {
		// Obtener el índice correspondiente al nivel actual
		indices[i] = pageNumber % entriesPerLevel
		pageNumber /= entriesPerLevel
	}
	return indices
}

func intPow(base, exp int) int {
	result := 1
	for exp > 0 {
		result *= base
		exp--
	}
	return result
}
