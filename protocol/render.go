package protocol

import (
	"fmt"
	"html/template"
	"strconv"
	"strings"
)

// The renderer turns ProtocolData into a static HTML document. Output is
// deterministic: the same ProtocolData always produces the same bytes, so
// the platform wrappers (print dialog, file share) can treat it as a pure
// function. Which categories get printed is decided by the scope object
// inside the data, never by re-reading the order.

const noMeasurements = "No measurements recorded"

var categoryTitles = map[Category]string{
	CategoryLoopImpedance: "Loop impedance",
	CategoryInsulation:    "Insulation",
	CategoryRcd:           "RCD",
	CategoryPeContinuity:  "PE continuity",
	CategoryEarthing:      "Earthing",
	CategoryPolarity:      "Polarity",
	CategoryPhaseSequence: "Phase sequence",
	CategoryBreakersCheck: "Breakers check",
	CategoryLps:           "LPS",
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func boolCheck(b bool) string {
	if b {
		return "OK"
	}
	return "NOT OK"
}

// formatReadings renders the reading lines of one point row. A category
// prints only when it is in scope for the point's type and the result
// actually carries a value for it. Comments always print.
func formatReadings(row PointRow, data *ProtocolData) []string {
	res := row.Result
	if res == nil {
		return []string{noMeasurements}
	}
	inScope := func(c Category) bool {
		return CategoryInScope(c, data.Scope, row.Point.Type)
	}
	var lines []string

	if inScope(CategoryLoopImpedance) && res.LoopImpedance != nil {
		lines = append(lines, fmt.Sprintf("Loop: %sΩ", num(*res.LoopImpedance)))
	}
	if inScope(CategoryInsulation) {
		var readings []string
		for _, v := range []*float64{res.InsulationLN, res.InsulationLPE, res.InsulationNPE} {
			if v != nil {
				readings = append(readings, num(*v))
			}
		}
		if len(readings) > 0 {
			lines = append(lines, fmt.Sprintf("Insulation: %s MΩ", strings.Join(readings, ", ")))
		}
	}
	if inScope(CategoryRcd) {
		var parts []string
		if res.RcdType != nil {
			parts = append(parts, *res.RcdType)
		}
		if res.RcdRatedCurrent != nil {
			parts = append(parts, num(*res.RcdRatedCurrent)+" mA")
		}
		if res.RcdTripTime != nil {
			parts = append(parts, num(*res.RcdTripTime)+" ms")
		}
		if res.RcdTripCurrent != nil {
			parts = append(parts, num(*res.RcdTripCurrent)+" mA trip")
		}
		if len(parts) > 0 {
			lines = append(lines, "RCD: "+strings.Join(parts, " / "))
		}
	}
	if inScope(CategoryPeContinuity) && res.PeContinuityResistance != nil {
		lines = append(lines, fmt.Sprintf("PE continuity: %sΩ", num(*res.PeContinuityResistance)))
	}
	if inScope(CategoryEarthing) && res.EarthingResistance != nil {
		lines = append(lines, fmt.Sprintf("Earthing: %sΩ", num(*res.EarthingResistance)))
	}
	if inScope(CategoryPolarity) && res.PolarityResultPass != nil {
		lines = append(lines, "Polarity: "+boolCheck(*res.PolarityResultPass))
	}
	if inScope(CategoryPhaseSequence) {
		var parts []string
		if res.PhaseSequenceDirection != nil {
			parts = append(parts, *res.PhaseSequenceDirection)
		}
		if res.PhaseSequenceResultPass != nil {
			parts = append(parts, boolCheck(*res.PhaseSequenceResultPass))
		}
		if len(parts) > 0 {
			lines = append(lines, "Phase sequence: "+strings.Join(parts, ", "))
		}
	}
	if inScope(CategoryBreakersCheck) {
		var parts []string
		if res.BreakerRating != nil {
			parts = append(parts, *res.BreakerRating)
		}
		if res.BreakersCheckPass != nil {
			parts = append(parts, boolCheck(*res.BreakersCheckPass))
		}
		if len(parts) > 0 {
			lines = append(lines, "Breakers: "+strings.Join(parts, ", "))
		}
	}
	if inScope(CategoryLps) {
		if res.LpsContinuityResistance != nil {
			lines = append(lines, fmt.Sprintf("LPS continuity: %sΩ", num(*res.LpsContinuityResistance)))
		} else if res.LpsContinuityPass != nil {
			lines = append(lines, "LPS continuity: "+boolCheck(*res.LpsContinuityPass))
		}
		if res.LpsVisualPass != nil {
			lines = append(lines, "LPS visual: "+boolCheck(*res.LpsVisualPass))
		}
	}
	if res.Comments != nil && *res.Comments != "" {
		lines = append(lines, "Comments: "+*res.Comments)
	}
	if len(lines) == 0 {
		lines = []string{noMeasurements}
	}
	return lines
}

type renderRow struct {
	Label    string
	Circuit  string
	Type     string
	Readings []string
	Status   string
}

type renderSection struct {
	Title string
	Rows  []renderRow
}

type renderView struct {
	Client      ClientInfo
	Object      ObjectInfo
	Inspector   Inspector
	GeneratedAt string
	Scheduled   string
	ScopeList   []string
	Sections    []renderSection
	Lps         *renderSection
	Visual      *VisualSection
	VisualLabel string
	Signature   SignatureBlock
}

func toSection(title string, rows []PointRow, data *ProtocolData) renderSection {
	sec := renderSection{Title: title}
	for _, row := range rows {
		sec.Rows = append(sec.Rows, renderRow{
			Label:    row.Point.Label,
			Circuit:  strVal(row.Point.CircuitSymbol),
			Type:     string(row.Point.Type),
			Readings: formatReadings(row, data),
			Status:   row.Status.ReportLabel(),
		})
	}
	return sec
}

func scopeList(data *ProtocolData) []string {
	var out []string
	for _, c := range AllCategories {
		if scopeEnables(data.Scope, c) {
			out = append(out, categoryTitles[c])
		}
	}
	if data.Scope.VisualInspection {
		out = append(out, "Visual inspection")
	}
	return out
}

// RenderHTML renders the protocol document.
func RenderHTML(data *ProtocolData) (string, error) {
	view := renderView{
		Client:      data.Client,
		Object:      data.Object,
		Inspector:   data.Inspector,
		GeneratedAt: data.GeneratedAt.Format("2006-01-02 15:04"),
		ScopeList:   scopeList(data),
		Visual:      data.Visual,
		Signature:   data.Signature,
	}
	if data.Object.ScheduledDate != nil {
		view.Scheduled = data.Object.ScheduledDate.Format("2006-01-02")
	}
	for _, room := range data.Rooms {
		if len(room.Points) == 0 {
			continue
		}
		view.Sections = append(view.Sections, toSection(room.Name, room.Points, data))
	}
	if data.Lps != nil {
		sec := toSection("Lightning protection system", data.Lps.Points, data)
		view.Lps = &sec
	}
	if data.Visual != nil && data.Visual.Pass != nil {
		view.VisualLabel = boolCheck(*data.Visual.Pass)
	}

	var sb strings.Builder
	if err := protocolTmpl.Execute(&sb, view); err != nil {
		return "", fmt.Errorf("render protocol: %w", err)
	}
	return sb.String(), nil
}

var protocolTmpl = template.Must(template.New("protocol").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Inspection protocol — {{.Object.Name}}</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; width: 100%; margin-bottom: 1.5em; }
th, td { border: 1px solid #444; padding: 4px 8px; text-align: left; vertical-align: top; }
h2 { margin-top: 1.5em; }
.meta td { border: none; padding: 2px 12px 2px 0; }
.sig { margin-top: 3em; }
.sig td { border: none; border-top: 1px solid #444; width: 30%; padding-top: 4px; text-align: center; }
</style>
</head>
<body>
<h1>Electrical installation inspection protocol</h1>
<table class="meta">
<tr><td>Client:</td><td>{{.Client.Name}}, {{.Client.Address}}</td></tr>
{{- if .Client.ContactPerson}}
<tr><td>Contact:</td><td>{{.Client.ContactPerson}}</td></tr>
{{- end}}
<tr><td>Object:</td><td>{{.Object.Name}}, {{.Object.Address}}</td></tr>
{{- if .Scheduled}}
<tr><td>Scheduled:</td><td>{{.Scheduled}}</td></tr>
{{- end}}
<tr><td>Inspector:</td><td>{{.Inspector.Name}} ({{.Inspector.Qualification}})</td></tr>
<tr><td>Generated:</td><td>{{.GeneratedAt}}</td></tr>
{{- if .ScopeList}}
<tr><td>Scope:</td><td>{{range $i, $s := .ScopeList}}{{if $i}}, {{end}}{{$s}}{{end}}</td></tr>
{{- end}}
</table>
{{- range .Sections}}
<h2>{{.Title}}</h2>
<table>
<tr><th>Point</th><th>Circuit</th><th>Type</th><th>Measurements</th><th>Result</th></tr>
{{- range .Rows}}
<tr><td>{{.Label}}</td><td>{{.Circuit}}</td><td>{{.Type}}</td><td>{{range $i, $l := .Readings}}{{if $i}}<br>{{end}}{{$l}}{{end}}</td><td>{{.Status}}</td></tr>
{{- end}}
</table>
{{- end}}
{{- with .Lps}}
<h2>{{.Title}}</h2>
<table>
<tr><th>Point</th><th>Circuit</th><th>Type</th><th>Measurements</th><th>Result</th></tr>
{{- range .Rows}}
<tr><td>{{.Label}}</td><td>{{.Circuit}}</td><td>{{.Type}}</td><td>{{range $i, $l := .Readings}}{{if $i}}<br>{{end}}{{$l}}{{end}}</td><td>{{.Status}}</td></tr>
{{- end}}
</table>
{{- end}}
{{- with .Visual}}
<h2>Visual inspection</h2>
<table>
<tr><th>Summary</th><td>{{.Summary}}</td></tr>
{{- if .DefectsFound}}
<tr><th>Defects found</th><td>{{.DefectsFound}}</td></tr>
{{- end}}
{{- if .Recommendations}}
<tr><th>Recommendations</th><td>{{.Recommendations}}</td></tr>
{{- end}}
{{- if $.VisualLabel}}
<tr><th>Result</th><td>{{$.VisualLabel}}</td></tr>
{{- end}}
</table>
{{- end}}
<table class="sig">
<tr><td>Date{{with .Signature.Date}}: {{.}}{{end}}</td><td>Inspector signature{{with .Signature.InspectorSignature}}: {{.}}{{end}}</td><td>Client signature{{with .Signature.ClientSignature}}: {{.}}{{end}}</td></tr>
</table>
</body>
</html>
`))
