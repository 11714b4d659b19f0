package export

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/motion2d/internal/scene"
	"github.com/san-kum/motion2d/internal/storage"
)

const (
	background  = "#0a0a0a"
	dynamicFill = "#00ccff"
	staticFill  = "#444466"
	hitFill     = "#ff4444"
)

// SceneToSVG draws sc as vector shapes, scale pixels per world unit. The
// world box [min, max] becomes the viewport with y flipped to point up.
func SceneToSVG(sc *scene.Scene, min, max mgl64.Vec2, scale float64) string {
	width := (max[0] - min[0]) * scale
	height := (max[1] - min[1]) * scale
	px := func(p mgl64.Vec2) (float64, float64) {
		return (p[0] - min[0]) * scale, height - (p[1]-min[1])*scale
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background))

	if sc.Settings.FloorEnabled {
		_, y := px(mgl64.Vec2{0, 0})
		sb.WriteString(fmt.Sprintf(`<line x1="0" y1="%.1f" x2="%.0f" y2="%.1f" stroke="#888899" stroke-width="2"/>
`, y, width, y))
	}

	for i := range sc.Particles {
		p := &sc.Particles[i]
		cx, cy := px(p.Position)
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, cx, cy, p.Radius*scale, fill(&p.Object)))
	}

	for i := range sc.Rigidbodies {
		r := &sc.Rigidbodies[i]
		pts := make([]string, 0, 4)
		for _, v := range scene.Vertices(r) {
			x, y := px(v)
			pts = append(pts, fmt.Sprintf("%.1f,%.1f", x, y))
		}
		sb.WriteString(fmt.Sprintf(`<polygon points="%s" fill="%s"/>
`, strings.Join(pts, " "), fill(&r.Object)))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func fill(o *scene.Object) string {
	switch {
	case o.Static && o.Colliding:
		return hitFill
	case o.Static:
		return staticFill
	}
	return dynamicFill
}

// TrajectoryToSVG traces the xy path of a tracked object.
func TrajectoryToSVG(series storage.Series, width, height int, strokeColor string) string {
	if series.Len() < 2 {
		return ""
	}

	minX, maxX := series.X[0], series.X[0]
	minY, maxY := series.Y[0], series.Y[0]
	for i := range series.X {
		minX, maxX = min(minX, series.X[i]), max(maxX, series.X[i])
		minY, maxY = min(minY, series.Y[i]), max(maxY, series.Y[i])
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, background, strokeColor))

	for i := range series.X {
		x := (series.X[i] - minX) / rangeX * float64(width)
		y := float64(height) - (series.Y[i]-minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
