// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/productlist-backend/internal/config"
	"github.com/your-org/productlist-backend/internal/domain/productlist"
)

var sheetTemplate = template.Must(template.New("registry").Funcs(template.FuncMap{
	"options": formatOptions,
}).Parse(registryTemplate))

// Service handles PDF generation
type Service struct {
	config *config.Config
	now    func() time.Time
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	if cfg.PDF.WkhtmltopdfPath != "" {
		wkhtmltopdf.SetPath(cfg.PDF.WkhtmltopdfPath)
	}
	return &Service{
		config: cfg,
		now:    time.Now,
	}
}

// SheetData represents the data passed to the registry template
type SheetData struct {
	StoreName   string
	GeneratedAt string
	EventName   string
	EventDate   string
	Location    string
	Registrants []productlist.Registrant
	Items       []productlist.ItemView
	Total       int
}

// NewSheetData assembles template data from a registry and its projection
func (s *Service) NewSheetData(list *productlist.List, view *productlist.ViewModel) SheetData {
	data := SheetData{
		StoreName:   s.config.App.StoreName,
		GeneratedAt: s.now().Format("January 2, 2006"),
		EventName:   list.Event.Name,
		Registrants: list.People,
		Items:       view.Items,
		Total:       view.TotalNumber,
	}
	if list.Event.Date != nil {
		data.EventDate = list.Event.Date.Format("January 2, 2006")
	}

	var location []string
	for _, part := range []string{list.Event.City, list.Event.State, list.Event.Country} {
		if part != "" {
			location = append(location, part)
		}
	}
	data.Location = strings.Join(location, ", ")
	return data
}

// GenerateRegistrySheet renders a printable registry
func (s *Service) GenerateRegistrySheet(list *productlist.List, view *productlist.ViewModel) (*bytes.Buffer, error) {
	htmlContent, err := s.generateHTML(s.NewSheetData(list, view))
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	dpi := s.config.PDF.DPI
	if dpi == 0 {
		dpi = 300
	}
	pdfg.Dpi.Set(dpi)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	if s.config.PDF.PageSize != "" {
		pdfg.PageSize.Set(s.config.PDF.PageSize)
	}

	page := wkhtmltopdf.NewPageReader(strings.NewReader(htmlContent))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)

	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

// generateHTML generates HTML content from template
func (s *Service) generateHTML(data SheetData) (string, error) {
	var buf bytes.Buffer
	if err := sheetTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

func formatOptions(options []productlist.SelectedOption) string {
	parts := make([]string, 0, len(options))
	for _, o := range options {
		parts = append(parts, o.OptionID+": "+o.ValueID)
	}
	return strings.Join(parts, ", ")
}

const registryTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.EventName}}</title>
    <style>
        body {
            font-family: Arial, sans-serif;
            margin: 0;
            padding: 20px;
            color: #333;
        }
        .header {
            margin-bottom: 30px;
            border-bottom: 2px solid #eee;
            padding-bottom: 20px;
        }
        .store {
            font-size: 14px;
            color: #666;
        }
        .event-title {
            font-size: 28px;
            font-weight: bold;
            color: #2563eb;
        }
        table {
            width: 100%;
            border-collapse: collapse;
        }
        th, td {
            padding: 8px;
            border-bottom: 1px solid #eee;
            text-align: left;
        }
        th {
            background-color: #f8f9fa;
        }
        .qty {
            text-align: right;
        }
        .footer {
            margin-top: 30px;
            font-size: 12px;
            color: #999;
        }
    </style>
</head>
<body>
    <div class="header">
        <div class="store">{{.StoreName}}</div>
        <div class="event-title">{{.EventName}}</div>
        {{if .EventDate}}<div>{{.EventDate}}</div>{{end}}
        {{if .Location}}<div>{{.Location}}</div>{{end}}
        {{range .Registrants}}<div class="registrant">{{.FirstName}} {{.LastName}}{{if .EventRole}} ({{.EventRole}}){{end}}</div>{{end}}
    </div>

    <table>
        <thead>
            <tr>
                <th>Product</th>
                <th>Options</th>
                <th class="qty">Requested</th>
            </tr>
        </thead>
        <tbody>
            {{range .Items}}
            <tr>
                <td>{{.Name}}</td>
                <td>{{options .Options}}</td>
                <td class="qty">{{.Quantity}}</td>
            </tr>
            {{end}}
        </tbody>
    </table>

    <div class="footer">{{.Total}} items &middot; printed {{.GeneratedAt}}</div>
</body>
</html>
`
