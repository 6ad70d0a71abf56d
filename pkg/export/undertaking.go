package export

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// UndertakingData carries the fields interpolated into the undertaking form.
type UndertakingData struct {
	StudentName           string
	RollNumber            string
	DepartmentName        string
	CompanyName           string
	CompanyAddress        string
	SupervisorName        string
	SupervisorEmail       string
	DepartmentGuide       string
	StartDate             time.Time
	EndDate               time.Time
	Stipend               float64
	PendingRedoCourses    string
	PendingRACourses      string
	PendingCurrentCourses string
	Remarks               string
	GeneratedAt           time.Time
}

// UndertakingRenderer produces the fixed two-page internship undertaking form.
type UndertakingRenderer struct{}

// NewUndertakingRenderer constructs the renderer.
func NewUndertakingRenderer() *UndertakingRenderer {
	return &UndertakingRenderer{}
}

const (
	pageWidth   = 180.0
	leftMargin  = 15.0
	lineHeight  = 5.0
	bodyFontPts = 10.0
)

// Render lays out both pages of the undertaking and returns the PDF bytes.
func (r *UndertakingRenderer) Render(data UndertakingData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(leftMargin, 15, leftMargin)
	pdf.SetAutoPageBreak(false, 15)

	r.renderPageOne(pdf, data)
	r.renderPageTwo(pdf, data)

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render undertaking pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *UndertakingRenderer) renderPageOne(pdf *gofpdf.Fpdf, data UndertakingData) {
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(pageWidth, 8, "PSG COLLEGE OF TECHNOLOGY, COIMBATORE 641 004", "", 1, "C", false, 0, "")
	pdf.Ln(2)
	pdf.SetFont("Arial", "U", 12)
	pdf.CellFormat(pageWidth, 6, "Undertaking for Pursuing Internship in the 7th Semester (MSc)", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "", bodyFontPts)
	pdf.CellFormat(pageWidth, lineHeight, "Date: "+formatDate(data.GeneratedAt), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.CellFormat(pageWidth, lineHeight, "From:", "", 1, "L", false, 0, "")
	pdf.CellFormat(pageWidth, lineHeight, fmt.Sprintf("%s (%s)", data.StudentName, data.RollNumber), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.CellFormat(pageWidth, lineHeight, "To", "", 1, "L", false, 0, "")
	pdf.CellFormat(pageWidth, lineHeight, "The Principal", "", 1, "L", false, 0, "")
	pdf.CellFormat(pageWidth, lineHeight, "PSG College of Technology", "", 1, "L", false, 0, "")
	pdf.CellFormat(pageWidth, lineHeight, "Coimbatore - 641004", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	department := data.DepartmentName
	if department == "" {
		department = "________________"
	}
	pdf.MultiCell(pageWidth, lineHeight, "Through : The Head of the Department, "+department, "", "L", false)
	pdf.Ln(2)

	pdf.CellFormat(pageWidth, lineHeight, "Dear Sir,", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "U", bodyFontPts)
	pdf.MultiCell(pageWidth, lineHeight, "Sub: Undertaking while pursuing Internship/Project Work I in Industry / Institutions.", "", "L", false)
	pdf.SetFont("Arial", "", bodyFontPts)
	pdf.Ln(3)

	r.renderDetailsBlock(pdf, data)
	pdf.Ln(4)

	r.renderClauses(pdf, data)

	pdf.Ln(1)
	pdf.CellFormat(pageWidth, lineHeight, "* Strike out if not applicable.", "", 1, "L", false, 0, "")
	pdf.CellFormat(pageWidth, lineHeight, "# PG GATE student has to produce a letter from the company.", "", 1, "L", false, 0, "")
	pdf.Ln(6)

	signY := pdf.GetY()
	pdf.Text(leftMargin+5, signY, "Tutor/Programme Co-ordinator")
	pdf.Text(leftMargin+80, signY, "Guide")
	pdf.Text(leftMargin+135, signY, "HoD")
	pdf.SetY(signY + 14)
	pdf.CellFormat(pageWidth, lineHeight, "(Signature of the Student)", "", 1, "C", false, 0, "")

	r.renderFooter(pdf, "Page 1/2")
}

func (r *UndertakingRenderer) renderDetailsBlock(pdf *gofpdf.Fpdf, data UndertakingData) {
	top := pdf.GetY()
	inner := pageWidth - 6

	pdf.SetX(leftMargin + 3)
	pdf.MultiCell(inner, lineHeight, fmt.Sprintf("Name & Address of the Industry/Institution : %s, %s", data.CompanyName, data.CompanyAddress), "", "L", false)
	pdf.SetX(leftMargin + 3)
	pdf.MultiCell(inner, lineHeight, fmt.Sprintf("Internship Period : From %s To %s", formatDate(data.StartDate), formatDate(data.EndDate)), "", "L", false)
	pdf.SetX(leftMargin + 3)
	pdf.MultiCell(inner, lineHeight, fmt.Sprintf("Guide from the Industry/Institution : %s, %s", data.SupervisorName, data.SupervisorEmail), "", "L", false)
	pdf.SetX(leftMargin + 3)
	pdf.MultiCell(inner, lineHeight, "Guide in the Department : "+data.DepartmentGuide, "", "L", false)
	pdf.SetX(leftMargin + 3)
	pdf.MultiCell(inner, lineHeight, "Stipend receivable (if any): Rs."+formatStipend(data.Stipend), "", "L", false)

	pdf.Rect(leftMargin, top-1, pageWidth, pdf.GetY()-top+2, "D")
}

func (r *UndertakingRenderer) renderClauses(pdf *gofpdf.Fpdf, data UndertakingData) {
	currentCourses := data.PendingCurrentCourses
	if currentCourses == "" {
		currentCourses = "no"
	}

	clauses := []string{
		"I will be regular and sincere in carrying out my internship at the above organization and obey its rules.",
		"My attendance will be sent regularly to my department by the organization.",
		"I will attend all project work reviews scheduled in the department and submit the report on time.",
		"I will update the guide in college regularly through reports reviewed by the guide in the industry.",
		"I have completed all course work except Project Work I.",
		fmt.Sprintf("I have %s final semester elective courses to study under self-study mode.", currentCourses),
		"I have enclosed the offer letter for the internship.",
		"I am aware of internship rules and will abide by the Placement & Training Office regulations.",
		"I have enclosed my parent's permission letter.",
		"# I am not in receipt of any other scholarship/stipend.",
		"* If I intend to receive stipend, I am aware that I will not be eligible for PG Scholarship.",
	}

	for i, clause := range clauses {
		pdf.MultiCell(pageWidth, lineHeight, fmt.Sprintf("%d. %s", i+1, clause), "", "L", false)
		pdf.Ln(1)
	}
}

func (r *UndertakingRenderer) renderPageTwo(pdf *gofpdf.Fpdf, data UndertakingData) {
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(pageWidth, 8, "Recommendation from the Department", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "", bodyFontPts)
	pdf.CellFormat(pageWidth, lineHeight, "Academic details of the student:", "", 1, "L", false, 0, "")
	pdf.CellFormat(pageWidth, lineHeight, "NAME: "+data.StudentName, "", 1, "L", false, 0, "")
	pdf.CellFormat(pageWidth, lineHeight, "Roll Number: "+data.RollNumber, "", 1, "L", false, 0, "")
	pdf.Ln(3)

	pdf.CellFormat(pageWidth, lineHeight, "Number of Pending Redo courses: "+orNone(data.PendingRedoCourses), "", 1, "L", false, 0, "")
	pdf.CellFormat(pageWidth, lineHeight, "Number of Pending RA courses: "+orNone(data.PendingRACourses), "", 1, "L", false, 0, "")
	pdf.CellFormat(pageWidth, lineHeight, "Pending Courses of current semester: "+orNone(data.PendingCurrentCourses), "", 1, "L", false, 0, "")

	remarks := data.Remarks
	if remarks == "" {
		remarks = "20XWP1 - Project Work I"
	}
	pdf.MultiCell(pageWidth, lineHeight, "Remarks: "+remarks, "", "L", false)
	pdf.Ln(6)

	pdf.MultiCell(pageWidth, lineHeight, "This student can be permitted to accept the internship and complete Project Work I within the specified time period.", "", "L", false)
	pdf.Ln(10)

	signY := pdf.GetY()
	pdf.SetFont("Arial", "", 9)
	pdf.Text(leftMargin+2, signY, "Tutor/Programme Coordinator")
	pdf.Text(leftMargin+62, signY, "Guide")
	pdf.Text(leftMargin+98, signY, "HoD")
	pdf.Text(leftMargin+130, signY, "Dean, Placement & Training")
	pdf.SetFont("Arial", "", bodyFontPts)

	pdf.SetY(signY + 18)
	secondY := pdf.GetY()
	pdf.Text(leftMargin+35, secondY, "Dean - Academic")
	pdf.Text(leftMargin+125, secondY, "Principal")

	pdf.SetY(secondY + 10)
	pdf.CellFormat(pageWidth, lineHeight, "* Strike out if not applicable.", "", 1, "L", false, 0, "")
	pdf.CellFormat(pageWidth, lineHeight, "NOTE: 1. Original Form shall be submitted to Placement Office", "", 1, "L", false, 0, "")
	pdf.SetX(leftMargin + 11)
	pdf.CellFormat(pageWidth-11, lineHeight, "2. Photo copies shall be submitted to a) Academic section  b) Concerned Department", "", 1, "L", false, 0, "")

	r.renderFooter(pdf, "Page 2/2")
}

func (r *UndertakingRenderer) renderFooter(pdf *gofpdf.Fpdf, label string) {
	pdf.SetY(-20)
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(pageWidth, lineHeight, label, "", 0, "R", false, 0, "")
	pdf.SetFont("Arial", "", bodyFontPts)
}

func formatDate(t time.Time) string {
	return t.Format("02-01-2006")
}

func formatStipend(amount float64) string {
	if amount == 0 {
		return "0"
	}
	return strconv.FormatFloat(amount, 'f', -1, 64)
}

func orNone(value string) string {
	if value == "" {
		return "None"
	}
	return value
}
