package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/SAP-F-2025/kambaz-client/internal/errors"
	"github.com/SAP-F-2025/kambaz-client/internal/models"
	"github.com/xuri/excelize/v2"
)

// ReadQuestions parses a question sheet laid out like the Questions sheet Quizzes
// writes. The Quiz column is ignored and empty rows are skipped. Multiple choice
// options get ids a, b, c and so on; the correct answer names the option by its text.
func ReadQuestions(r io.Reader) ([]models.Question, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := SheetQuestions
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.NewValidationError("file", "Excel file has no sheets", nil)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read Excel rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, errors.NewValidationError("file", "Excel must have header row and at least one data row", len(rows))
	}

	headerMap := make(map[string]int)
	for i, header := range rows[0] {
		headerMap[strings.ToLower(strings.TrimSpace(header))] = i
	}
	for _, required := range []string{"type", "points"} {
		if _, ok := headerMap[required]; !ok {
			return nil, errors.NewValidationError("file", "missing column "+required, nil)
		}
	}

	var questions []models.Question
	var problems errors.ValidationErrors
	for i, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		q, err := parseRow(row, headerMap)
		if err != nil {
			problems = append(problems, errors.ValidationError{
				Field:   fmt.Sprintf("row %d", i+2),
				Message: err.Error(),
				Rule:    "answer_key",
			})
			continue
		}
		questions = append(questions, q)
	}
	if len(problems) > 0 {
		return nil, problems
	}
	return questions, nil
}

func parseRow(row []string, headerMap map[string]int) (models.Question, error) {
	get := func(name string) string {
		idx, ok := headerMap[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	q := models.Question{
		Type:     models.QuestionType(get("type")),
		Title:    get("title"),
		Question: get("question"),
	}
	if p := get("points"); p != "" {
		points, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return q, fmt.Errorf("points %q is not a number", p)
		}
		q.Points = points
	}

	correct := get("correct answer")
	switch q.Type {
	case models.MultipleChoice:
		for i, text := range splitList(get("choices")) {
			id, err := choiceID(i)
			if err != nil {
				return q, err
			}
			q.Choices = append(q.Choices, models.Choice{ID: id, Text: text})
			if correct != "" && text == correct {
				q.CorrectOption = models.Ptr(id)
			}
		}
		if correct != "" && q.CorrectOption == nil {
			return q, fmt.Errorf("correct answer %q is not one of the choices", correct)
		}
	case models.TrueFalse:
		b, err := strconv.ParseBool(correct)
		if err != nil {
			return q, fmt.Errorf("correct answer %q must be true or false", correct)
		}
		q.CorrectAnswer = models.Ptr(b)
	case models.FillInBlank:
		q.PossibleAnswers = splitList(correct)
	default:
		return q, fmt.Errorf("unknown question type %q", q.Type)
	}
	return q, nil
}

// choiceID names options a..z, then aa, ab and so on
func choiceID(i int) (string, error) {
	name, err := excelize.ColumnNumberToName(i + 1)
	if err != nil {
		return "", fmt.Errorf("too many choices: %w", err)
	}
	return strings.ToLower(name), nil
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, listSeparator) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
