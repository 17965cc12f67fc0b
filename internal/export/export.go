// Package export writes quiz lists and attempt histories as xlsx workbooks and reads
// question sheets back in.
package export

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/SAP-F-2025/kambaz-client/internal/eligibility"
	"github.com/SAP-F-2025/kambaz-client/internal/models"
	"github.com/xuri/excelize/v2"
)

const (
	SheetQuizzes   = "Quizzes"
	SheetQuestions = "Questions"
	SheetAttempts  = "Attempts"

	listSeparator = "|"
)

var (
	quizHeaders = []string{
		"ID", "Title", "Status", "Published", "Due", "Available From", "Available Until",
		"Points", "Questions", "Time Limit", "Multiple Attempts", "Attempts", "Quiz Type", "Assignment Group",
	}
	questionHeaders = []string{"Quiz", "Type", "Title", "Question", "Points", "Choices", "Correct Answer"}
	attemptHeaders  = []string{"Attempt", "Started", "Ended", "Score", "Total Points", "Percent", "Correct Answers"}
)

// Quizzes builds a workbook with one row per quiz and one row per question. Status is
// evaluated at now.
func Quizzes(quizzes []models.Quiz, now time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetQuizzes); err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	if err := writeRow(f, SheetQuizzes, 1, toCells(quizHeaders)); err != nil {
		return nil, err
	}
	for i, q := range quizzes {
		q = q.WithDefaults()
		row := []interface{}{
			q.ID,
			q.Title,
			string(eligibility.QuizStatus(q, now)),
			q.IsPublished(),
			deref(q.DueDate),
			deref(q.AvailableFrom),
			deref(q.AvailableUntil),
			eligibility.TotalPoints(q),
			len(q.Questions),
			*q.TimeLimit,
			q.AllowsMultipleAttempts(),
			q.EffectiveAttempts(),
			*q.QuizType,
			*q.AssignmentGroup,
		}
		if err := writeRow(f, SheetQuizzes, i+2, row); err != nil {
			return nil, err
		}
	}

	if _, err := f.NewSheet(SheetQuestions); err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	if err := writeRow(f, SheetQuestions, 1, toCells(questionHeaders)); err != nil {
		return nil, err
	}
	rowIndex := 2
	for _, q := range quizzes {
		for _, question := range q.Questions {
			choices, correct := answerKeyCells(question)
			row := []interface{}{q.Title, string(question.Type), question.Title, question.Question, question.Points, choices, correct}
			if err := writeRow(f, SheetQuestions, rowIndex, row); err != nil {
				return nil, err
			}
			rowIndex++
		}
	}

	f.SetActiveSheet(0)
	return write(f)
}

// Attempts builds a workbook with a student's attempt history at one quiz
func Attempts(quiz models.Quiz, attempts []models.QuizAttempt) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetAttempts); err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	if err := f.SetCellValue(SheetAttempts, "A1", quiz.Title); err != nil {
		return nil, fmt.Errorf("failed to write Excel cell: %w", err)
	}
	if err := writeRow(f, SheetAttempts, 2, toCells(attemptHeaders)); err != nil {
		return nil, err
	}

	for i, a := range attempts {
		correct := 0
		for _, ans := range a.Answers {
			if ans.IsCorrect {
				correct++
			}
		}
		var percent interface{} = ""
		if a.TotalPoints > 0 {
			percent = int(a.Score/a.TotalPoints*100 + 0.5)
		}
		row := []interface{}{a.AttemptNumber, a.StartTime, deref(a.EndTime), a.Score, a.TotalPoints, percent, correct}
		if err := writeRow(f, SheetAttempts, i+3, row); err != nil {
			return nil, err
		}
	}
	return write(f)
}

func answerKeyCells(q models.Question) (string, string) {
	switch q.Type {
	case models.MultipleChoice:
		texts := make([]string, len(q.Choices))
		correct := ""
		for i, c := range q.Choices {
			texts[i] = c.Text
			if q.CorrectOption != nil && *q.CorrectOption == c.ID {
				correct = c.Text
			}
		}
		return strings.Join(texts, listSeparator), correct
	case models.TrueFalse:
		if q.CorrectAnswer == nil {
			return "", ""
		}
		return "", strconv.FormatBool(*q.CorrectAnswer)
	case models.FillInBlank:
		return "", strings.Join(q.PossibleAnswers, listSeparator)
	}
	return "", ""
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("failed to address Excel cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return fmt.Errorf("failed to write Excel cell %s: %w", cell, err)
		}
	}
	return nil
}

func write(f *excelize.File) ([]byte, error) {
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func toCells(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
