// Package printout produces the printable recipe card (PDF) and the QR
// share code for a recipe.
package printout

import (
	"bytes"
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"

	"tastytrail/models"
)

// Photo box on the card, in millimetres.
const (
	photoMaxW = 120.0
	photoMaxH = 80.0
	qrSizeMM  = 35.0
)

// QR encodes content as a PNG of size pixels square.
func QR(content string, size int) ([]byte, error) {
	return qrcode.Encode(content, qrcode.Medium, size)
}

// RecipeURL is the public link to a recipe's page.
func RecipeURL(baseURL string, id int64) string {
	return strings.TrimRight(baseURL, "/") + "/recipe/" + strconv.FormatInt(id, 10)
}

// RecipePDF lays out a one-recipe card: title, facts, photo, QR code
// linking to link, ingredients and numbered steps. photo may be nil.
func RecipePDF(rec models.Recipe, link string, photo image.Image) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(rec.Title, true)
	pdf.SetCreator("Tasty Trail", true)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	qrPNG, err := QR(link, 256)
	if err != nil {
		return nil, fmt.Errorf("qr code: %w", err)
	}
	pngOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", pngOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 210-10-qrSizeMM, 10, qrSizeMM, qrSizeMM, false, pngOpts, 0, link)

	pdf.SetFont("Arial", "B", 20)
	pdf.SetTextColor(22, 101, 52)
	pdf.MultiCell(200-qrSizeMM-10, 9, tr(rec.Title), "", "L", false)
	pdf.SetTextColor(0, 0, 0)

	pdf.SetFont("Arial", "", 11)
	pdf.MultiCell(200-qrSizeMM-10, 6, tr(facts(rec)), "", "L", false)
	pdf.Ln(2)

	if y := 10 + qrSizeMM + 2; pdf.GetY() < y {
		pdf.SetY(y)
	}

	if photo != nil {
		var buf bytes.Buffer
		if err := imaging.Encode(&buf, photo, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
			return nil, fmt.Errorf("encode photo: %w", err)
		}
		w, h := photoBox(photo.Bounds())
		jpgOpts := gofpdf.ImageOptions{ImageType: "JPG"}
		pdf.RegisterImageOptionsReader("photo", jpgOpts, &buf)
		pdf.ImageOptions("photo", (210-w)/2, -1, w, h, true, jpgOpts, 0, "")
		pdf.Ln(4)
	}

	if rec.Description != "" {
		pdf.SetFont("Arial", "I", 11)
		pdf.MultiCell(0, 6, tr(rec.Description), "", "L", false)
		pdf.Ln(3)
	}

	section(pdf, tr("Ingredients"))
	for _, line := range rec.IngredientList() {
		pdf.MultiCell(0, 6, tr("- "+line), "", "L", false)
	}
	pdf.Ln(3)

	section(pdf, tr("Instructions"))
	for i, line := range rec.StepList() {
		pdf.MultiCell(0, 6, tr(fmt.Sprintf("%d. %s", i+1, line)), "", "L", false)
	}

	pdf.Ln(6)
	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(107, 114, 128)
	pdf.CellFormat(0, 5, tr("Shared from Tasty Trail: "+link), "", 1, "L", false, 0, link)

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return out.Bytes(), nil
}

func section(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 8, title, "B", 1, "L", false, 0, "")
	pdf.Ln(1)
	pdf.SetFont("Arial", "", 11)
}

func facts(rec models.Recipe) string {
	var parts []string
	if rec.Category != "" {
		parts = append(parts, rec.Category)
	}
	if rec.Cuisine != "" {
		parts = append(parts, rec.Cuisine)
	}
	if rec.CookTime > 0 {
		parts = append(parts, fmt.Sprintf("%d min", rec.CookTime))
	}
	parts = append(parts, fmt.Sprintf("%d likes", rec.Likes))
	return strings.Join(parts, "  |  ")
}

// photoBox scales bounds to fit the card's photo box, keeping the aspect ratio.
func photoBox(b image.Rectangle) (w, h float64) {
	pw, ph := float64(b.Dx()), float64(b.Dy())
	if pw <= 0 || ph <= 0 {
		return photoMaxW, photoMaxH
	}
	scale := min(photoMaxW/pw, photoMaxH/ph)
	return pw * scale, ph * scale
}
