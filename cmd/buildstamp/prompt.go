package main

// prompt.go — the interactive question flow behind `buildstamp init`,
// a bubbletea model that asks one question at a time.

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"buildstamp/internal/project"
)

// question describes a single init prompt.
type question struct {
	key         string
	prompt      string
	placeholder string
}

var initQuestions = []question{
	{key: "name", prompt: "Project name", placeholder: "myapp"},
	{key: "version", prompt: "Version", placeholder: "0.1.0"},
	{key: "output", prompt: "Output path", placeholder: "internal/buildinfo/buildinfo.go"},
	{key: "package", prompt: "Generated package name", placeholder: "buildinfo"},
}

// configFromAnswers maps prompt answers onto a fresh config with the
// default fact selection spelled out. Empty answers fall back to the
// placeholder defaults.
func configFromAnswers(answers map[string]string) *project.Config {
	get := func(key string) string {
		if answers[key] != "" {
			return answers[key]
		}
		for _, q := range initQuestions {
			if q.key == key {
				return q.placeholder
			}
		}
		return ""
	}
	return &project.Config{
		Project: project.ProjectMeta{
			Name:    get("name"),
			Version: get("version"),
		},
		Output:  get("output"),
		Package: get("package"),
		Include: []string{"timestamp", "version", "profile", "flags"},
	}
}

// promptModel asks the questions sequentially with a focused text input.
type promptModel struct {
	questions []question
	idx       int
	inputs    []textinput.Model
	done      bool
}

func newPromptModel(questions []question) promptModel {
	inputs := make([]textinput.Model, len(questions))
	for i, q := range questions {
		ti := textinput.New()
		ti.Placeholder = q.placeholder
		ti.CharLimit = 512
		inputs[i] = ti
	}
	m := promptModel{
		questions: questions,
		inputs:    inputs,
	}
	if len(inputs) > 0 {
		m.inputs[0].Focus()
	}
	return m
}

func (m promptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			if m.idx < len(m.inputs)-1 {
				m.inputs[m.idx].Blur()
				m.idx++
				m.inputs[m.idx].Focus()
				return m, textinput.Blink
			}
			m.done = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.inputs[m.idx], cmd = m.inputs[m.idx].Update(msg)
	return m, cmd
}

func (m promptModel) View() string {
	if m.done || len(m.questions) == 0 {
		return ""
	}
	q := m.questions[m.idx]
	return fmt.Sprintf("%s: %s\n", q.prompt, m.inputs[m.idx].View())
}

// promptQuestions runs the TUI and returns answers keyed by question.key.
func promptQuestions(questions []question) (map[string]string, error) {
	if len(questions) == 0 {
		return map[string]string{}, nil
	}
	m := newPromptModel(questions)
	p := tea.NewProgram(m)
	result, err := p.Run()
	if err != nil {
		return nil, err
	}
	final, ok := result.(promptModel)
	if !ok || !final.done {
		return nil, fmt.Errorf("prompt cancelled")
	}
	answers := make(map[string]string, len(questions))
	for i, q := range questions {
		answers[q.key] = final.inputs[i].Value()
	}
	return answers, nil
}
