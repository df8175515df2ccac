package models

import "strings"

// PTEFlags son los bits de permiso de una entrada de la tabla de páginas.
type PTEFlags uint8

const (
	PTEValid PTEFlags = 1 << iota
	PTERead
	PTEWrite
	PTEExecute
	PTEUser
)

func (flags PTEFlags) Has(other PTEFlags) bool {
	return flags&other == other
}

func (flags PTEFlags) String() string {
	var sb strings.Builder
	for _, bit := range []struct {
		flag   PTEFlags
		letter byte
	}{{PTEValid, 'V'}, {PTERead, 'R'}, {PTEWrite, 'W'}, {PTEExecute, 'X'}, {PTEUser, 'U'}} {
		if flags.Has(bit.flag) {
			sb.WriteByte(bit.letter)
		} else {
			sb.WriteByte('-')
		}
	}
	return sb.String()
}

type PageEntry struct {
	Frame    int
	Flags    PTEFlags
	Use      bool
	Modified bool
}

// PageTableLevel es un nodo de la tabla multinivel. Los nodos hoja tienen Entry, los intermedios SubTables.
type PageTableLevel struct {
	IsLeaf    bool
	SubTables map[int]*PageTableLevel
	Entry     *PageEntry
}

// MappedPage es una página mapeada tal como se informa hacia afuera del módulo.
type MappedPage struct {
	PageNumber int      `json:"page"`
	Frame      int      `json:"frame"`
	Flags      PTEFlags `json:"-"`
	Perms      string   `json:"perms"`
}

type MemoryStatus struct {
	PageSize   int `json:"page_size"`
	TotalFrame int `json:"total_frames"`
	FreeFrames int `json:"free_frames"`
	Processes  int `json:"processes"`
}
