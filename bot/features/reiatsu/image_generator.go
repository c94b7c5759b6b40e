package reiatsu

import (
	"bytes"
	"fmt"
	"time"
	"unicode/utf8"

	"reiatsu/bot/common"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	log "github.com/sirupsen/logrus"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
)

// LeaderboardEntry is one row of the leaderboard
type LeaderboardEntry struct {
	Rank   int
	Name   string
	Points int64
	Class  string
	Level  int
}

type tableColumn struct {
	Header    string
	XPosition int
	ColorRGB  [3]float64
}

type tableStyle struct {
	Width     int
	MinHeight int
	Padding   int
	RowHeight int
	Medals    [3][4]float64
}

// LeaderboardImageGenerator renders the leaderboard as a PNG
type LeaderboardImageGenerator struct {
	style tableStyle
}

// NewLeaderboardImageGenerator creates a generator with the default style
func NewLeaderboardImageGenerator() *LeaderboardImageGenerator {
	return &LeaderboardImageGenerator{
		style: tableStyle{
			Width:     420,
			MinHeight: 180,
			Padding:   15,
			RowHeight: 26,
			Medals: [3][4]float64{
				{1, 0.84, 0, 0.1},
				{0.8, 0.8, 0.8, 0.08},
				{0.8, 0.5, 0.2, 0.06},
			},
		},
	}
}

func (g *LeaderboardImageGenerator) columns() []tableColumn {
	p := g.style.Padding
	return []tableColumn{
		{Header: "#", XPosition: p, ColorRGB: [3]float64{0.85, 0.85, 0.9}},
		{Header: "Player", XPosition: p + 25, ColorRGB: [3]float64{1, 1, 1}},
		{Header: "Reiatsu", XPosition: p + 175, ColorRGB: [3]float64{0.55, 0.85, 1}},
		{Header: "Class", XPosition: p + 260, ColorRGB: [3]float64{0.9, 0.85, 1}},
		{Header: "Lvl", XPosition: p + 355, ColorRGB: [3]float64{0.85, 1, 0.85}},
	}
}

// Generate draws the entries and returns the encoded PNG
func (g *LeaderboardImageGenerator) Generate(entries []LeaderboardEntry) ([]byte, error) {
	start := time.Now()
	defer func() {
		log.WithField("duration_ms", time.Since(start).Milliseconds()).
			WithField("row_count", len(entries)).
			Debug("Leaderboard image generation completed")
	}()

	regular, err := loadFont(gomono.TTF, 11)
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}
	bold, err := loadFont(gobold.TTF, 9)
	if err != nil {
		return nil, fmt.Errorf("failed to load bold font: %w", err)
	}

	// header + header padding + rows + bottom padding
	height := max(25+30+len(entries)*g.style.RowHeight+15, g.style.MinHeight)
	width := g.style.Width

	dc := gg.NewContext(width, height)
	dc.SetFillRule(gg.FillRuleWinding)

	for y := range height {
		t := float64(y) / float64(height)
		for x := range width {
			noise := (float64((x*y)%7) - 3.5) / 255.0
			dc.SetRGB(0.02+t*0.02+noise, 0.04+t*0.06+noise, 0.08+t*0.14+noise)
			dc.SetPixel(x, y)
		}
	}

	dc.SetFontFace(regular)
	columns := g.columns()

	y := float64(25)
	dc.SetRGBA(0.25, 0.4, 0.55, 0.4)
	dc.DrawRectangle(0, y-15, float64(width), 20)
	dc.Fill()

	dc.SetRGB(1, 1, 1)
	for _, col := range columns {
		drawSharpText(dc, col.Header, float64(col.XPosition), y)
	}

	dc.SetRGBA(0.5, 0.7, 0.85, 0.7)
	dc.SetLineWidth(1)
	dc.DrawLine(0, y+8, float64(width), y+8)
	dc.Stroke()

	y += 30
	for idx, entry := range entries {
		g.drawRowBackground(dc, idx, y)

		if idx < 3 {
			medal := g.style.Medals[idx]
			dc.SetRGB(medal[0]*0.9+0.1, medal[1]*0.9+0.1, medal[2]*0.9+0.1)
			dc.DrawCircle(float64(g.style.Padding+3), y-4, 6)
			dc.Fill()

			dc.SetRGB(0, 0, 0)
			dc.SetFontFace(bold)
			dc.DrawStringAnchored(fmt.Sprintf("%d", entry.Rank), float64(g.style.Padding+3), y-5, 0.5, 0.4)
			dc.SetFontFace(regular)
		} else {
			setColor(dc, columns[0].ColorRGB)
			drawSharpText(dc, fmt.Sprintf("%d", entry.Rank), float64(columns[0].XPosition), y)
		}

		cells := []string{
			truncateName(entry.Name, 18),
			common.FormatPointsCompact(entry.Points),
			orDash(entry.Class),
			fmt.Sprintf("%d", entry.Level),
		}
		for j, cell := range cells {
			col := columns[j+1]
			setColor(dc, col.ColorRGB)
			drawSharpText(dc, cell, float64(col.XPosition), y)
		}

		y += float64(g.style.RowHeight)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *LeaderboardImageGenerator) drawRowBackground(dc *gg.Context, idx int, y float64) {
	if idx < 3 {
		color := g.style.Medals[idx]
		dc.SetRGBA(color[0], color[1], color[2], color[3])
	} else {
		dc.SetRGBA(0.5, 0.5, 0.6, 0.02)
	}
	dc.DrawRectangle(0, y-15, float64(g.style.Width), float64(g.style.RowHeight))
	dc.Fill()
}

func truncateName(name string, limit int) string {
	if utf8.RuneCountInString(name) <= limit {
		return name
	}
	runes := []rune(name)
	return string(runes[:limit-1]) + "…"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func setColor(dc *gg.Context, rgb [3]float64) {
	dc.SetRGB(rgb[0], rgb[1], rgb[2])
}

// drawSharpText draws text over a faint offset shadow
func drawSharpText(dc *gg.Context, text string, x, y float64) {
	dc.Push()
	dc.SetRGBA(0, 0, 0, 0.5)
	dc.DrawString(text, x+0.5, y+0.5)
	dc.Pop()

	dc.DrawString(text, x, y)
}

func loadFont(fontData []byte, size float64) (font.Face, error) {
	f, err := truetype.Parse(fontData)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:       size,
		DPI:        72,
		Hinting:    font.HintingFull,
		SubPixelsX: 4,
		SubPixelsY: 4,
	}), nil
}
