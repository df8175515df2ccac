package services

import (
	"fmt"
	"io"

	"github.com/fogleman/gg"
)

const (
	FreeFrameOwner = -1

	frameCellSize  = 12
	framesPerRow   = 32
	frameCellInset = 1
)

// Paleta para distinguir procesos, se recorre de forma cíclica según el PID.
var ownerPalette = [][3]float64{
	{0.90, 0.30, 0.24},
	{0.20, 0.60, 0.86},
	{0.18, 0.80, 0.44},
	{0.95, 0.77, 0.06},
	{0.61, 0.35, 0.71},
	{0.90, 0.49, 0.13},
	{0.10, 0.74, 0.61},
	{0.93, 0.40, 0.65},
}

var freeFrameColor = [3]float64{0.85, 0.85, 0.85}

// OwnerColor es el color con el que se dibuja un frame según su dueño.
func OwnerColor(owner int) [3]float64 {
	if owner == FreeFrameOwner {
		return freeFrameColor
	}
	return ownerPalette[owner%len(ownerPalette)]
}

// FrameCellOrigin es la esquina superior izquierda de la celda del frame en la imagen.
func FrameCellOrigin(frame int) (int, int) {
	return (frame % framesPerRow) * frameCellSize, (frame / framesPerRow) * frameCellSize
}

// RenderFrameMap dibuja la memoria física como una grilla de frames coloreados por proceso y la escribe en PNG.
func RenderFrameMap(owners []int, writer io.Writer) error {
	if len(owners) == 0 {
		return fmt.Errorf("no hay frames para dibujar")
	}
	rows := (len(owners) + framesPerRow - 1) / framesPerRow
	columns := min(len(owners), framesPerRow)

	dc := gg.NewContext(columns*frameCellSize, rows*frameCellSize)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	for frame, owner := range owners {
		x, y := FrameCellOrigin(frame)
		color := OwnerColor(owner)
		dc.SetRGB(color[0], color[1], color[2])
		dc.DrawRectangle(float64(x+frameCellInset), float64(y+frameCellInset),
			float64(frameCellSize-2*frameCellInset), float64(frameCellSize-2*frameCellInset))
		dc.Fill()
	}

	return dc.EncodePNG(writer)
}
