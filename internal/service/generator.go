package service

import (
	"context"
	"fmt"

	"github.com/edugen/studio/internal/model"
)

// Generator produces material content from source text. The production
// generator is a language model; MockGenerator stands in for it.
type Generator interface {
	GenerateTest(ctx context.Context, content string, numQuestions int, difficulty model.Difficulty) ([]model.Assignment, error)
	GenerateStudyMaterial(ctx context.Context, content string) (model.StudyContent, error)
	// GenerateQuestions writes questions for an existing assignment,
	// described by brief.
	GenerateQuestions(ctx context.Context, brief string, numQuestions int, difficulty model.Difficulty) ([]model.Question, error)
}

// MockGenerator returns deterministic content. Question types rotate
// through every supported type.
type MockGenerator struct{}

func (MockGenerator) GenerateTest(ctx context.Context, content string, numQuestions int, difficulty model.Difficulty) ([]model.Assignment, error) {
	qs := mockQuestions(numQuestions)
	split := numQuestions/2 + 1
	if split > len(qs) {
		split = len(qs)
	}

	basic := model.Assignment{
		Title:       "Assignment 1 - Basic questions",
		Description: "Check your knowledge of the basic concepts",
		Questions:   qs[:split],
	}
	advanced := model.Assignment{
		Title:       "Assignment 2 - Advanced questions",
		Description: "A deeper understanding of the topic",
		Questions:   qs[split:],
	}

	out := []model.Assignment{basic, advanced}
	for i := range out {
		out[i].Position = i + 1
		for qi := range out[i].Questions {
			out[i].Questions[qi].Position = qi + 1
		}
		out[i].MaxPoints = out[i].PointsTotal()
	}
	return out, nil
}

func (MockGenerator) GenerateStudyMaterial(ctx context.Context, content string) (model.StudyContent, error) {
	terms := make([]model.Term, 10)
	for i := range terms {
		terms[i] = model.Term{
			Name:       fmt.Sprintf("Key concept %d", i+1),
			Definition: fmt.Sprintf("Explanation of key concept %d and why it matters for the topic", i+1),
		}
	}
	return model.StudyContent{
		Summary: "This is an automatically generated summary of the provided material. " +
			"It covers the main topics and concepts students need and is structured to make the content easier to learn.",
		Terms: terms,
	}, nil
}

func (MockGenerator) GenerateQuestions(ctx context.Context, brief string, numQuestions int, difficulty model.Difficulty) ([]model.Question, error) {
	return mockQuestions(numQuestions), nil
}

func mockQuestions(n int) []model.Question {
	qs := make([]model.Question, n)
	for i := range qs {
		num := i + 1
		q := model.Question{
			Type:     model.QuestionTypes[i%len(model.QuestionTypes)],
			Position: num,
		}

		switch q.Type {
		case model.QuestionTypeMultipleChoice:
			q.Text = fmt.Sprintf("Multiple choice question #%d: Which of these answers is correct?", num)
			q.Options = textOptions("Answer B", "Answer A", "Answer B", "Answer C", "Answer D")
			q.CorrectAnswer = "Answer B"
			q.Points = 5
		case model.QuestionTypeShortAnswer:
			q.Text = fmt.Sprintf("Short answer question #%d: Describe the main idea.", num)
			q.CorrectAnswer = "A short and precise sample answer"
			q.Points = 10
		case model.QuestionTypeLongAnswer:
			q.Text = fmt.Sprintf("Long answer question #%d: Explain the process in detail.", num)
			q.CorrectAnswer = "A detailed answer with several points and explanations"
			q.Points = 15
		case model.QuestionTypeTrueFalse:
			q.Text = fmt.Sprintf("True/false question #%d: This statement is true.", num)
			q.Options = textOptions("True", "True", "False")
			q.CorrectAnswer = "True"
			q.Points = 3
		case model.QuestionTypeMatching:
			q.Text = fmt.Sprintf("Matching question #%d: Connect the correct pairs.", num)
			q.Options = textOptions("",
				model.JoinPair("Pair 1A", "Pair 1B"),
				model.JoinPair("Pair 2A", "Pair 2B"),
				model.JoinPair("Pair 3A", "Pair 3B"))
			for oi := range q.Options {
				q.Options[oi].IsCorrect = true
			}
			q.CorrectAnswer = "1A-1B, 2A-2B, 3A-3B"
			q.Points = 8
		default:
			q.Text = fmt.Sprintf("Fill in the blank question #%d: The process takes place in the _____.", num)
			q.CorrectAnswer = "thylakoids of the chloroplast"
			q.Points = 5
		}
		qs[i] = q
	}
	return qs
}

// textOptions builds options from plain strings; the one equal to correct
// is marked correct.
func textOptions(correct string, texts ...string) []model.Option {
	opts := make([]model.Option, len(texts))
	for i, t := range texts {
		opts[i] = model.Option{Text: t, IsCorrect: t == correct, Position: i + 1}
	}
	return opts
}
