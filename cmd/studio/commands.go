package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/edugen/studio/internal/client"
	"github.com/edugen/studio/internal/editor"
	"github.com/edugen/studio/internal/material"
	"github.com/edugen/studio/internal/model"
	"github.com/edugen/studio/internal/upload"
)

type command struct {
	usage   string
	help    string
	minArgs int
	run     func(ctx context.Context, args []string)
}

func (a *app) commandTable() map[string]command {
	return map[string]command{
		"help":     {"", "list commands", 0, a.cmdHelp},
		"register": {"", "create an account", 0, a.cmdRegister},
		"login":    {"", "sign in", 0, a.cmdLogin},
		"logout":   {"", "sign out", 0, a.cmdLogout},
		"whoami":   {"", "show the signed-in account", 0, a.cmdWhoami},
		"list":     {"", "list your materials", 0, a.cmdList},
		"create":   {"test|study <title> [file]", "generate a material from text or a file", 2, a.cmdCreate},
		"open":     {"test|study <id>", "open a material for editing", 2, a.cmdOpen},
		"show":     {"", "print the open material", 0, a.cmdShow},
		"reload":   {"", "discard changes and load the saved copy", 0, a.cmdReload},
		"save":     {"", "save the open material", 0, a.cmdSave},
		"close":    {"", "close the open material", 0, a.cmdClose},
		"delete":   {"", "delete the open material", 0, a.cmdDelete},
		"export":   {"pdf|docx [student]", "download the saved material", 1, a.cmdExport},

		"add-assignment":  {"", "append an assignment", 0, a.cmdAddAssignment},
		"set-assignment":  {"<a> title|description|max_points <value>", "change an assignment", 3, a.cmdSetAssignment},
		"del-assignment":  {"<a>", "delete an assignment", 1, a.cmdDelAssignment},
		"up-assignment":   {"<a>", "move an assignment up", 1, a.cmdMoveAssignment(true)},
		"down-assignment": {"<a>", "move an assignment down", 1, a.cmdMoveAssignment(false)},

		"add-question":  {"<a>", "append a question", 1, a.cmdAddQuestion},
		"set-question":  {"<a> <q> question_text|question_type|correct_answer|points <value>", "change a question", 4, a.cmdSetQuestion},
		"del-question":  {"<a> <q>", "delete a question", 2, a.cmdDelQuestion},
		"up-question":   {"<a> <q>", "move a question up", 2, a.cmdMoveQuestion(true)},
		"down-question": {"<a> <q>", "move a question down", 2, a.cmdMoveQuestion(false)},

		"add-option": {"<a> <q>", "append an option", 2, a.cmdAddOption},
		"set-option": {"<a> <q> <o> option_text|is_correct <value>", "change an option", 5, a.cmdSetOption},
		"del-option": {"<a> <q> <o>", "delete an option", 3, a.cmdDelOption},

		"augment": {"<a> <count> [easy|medium|hard]", "generate more questions for an assignment", 2, a.cmdAugment},

		"set":      {"title|summary <value>", "change the study material", 2, a.cmdSetStudy},
		"add-term": {"", "append a term", 0, a.cmdAddTerm},
		"set-term": {"<n> name|definition <value>", "change a term", 3, a.cmdSetTerm},
		"del-term": {"<n>", "delete a term", 1, a.cmdDelTerm},
	}
}

// report prints err as a user-facing message.
func (a *app) report(err error, fallback string) {
	switch {
	case errors.Is(err, material.ErrCancelled):
		fmt.Fprintln(a.out, "Cancelled.")
	case errors.Is(err, material.ErrNoDocument), errors.Is(err, material.ErrWrongKind),
		errors.Is(err, material.ErrAssignmentNotFound), errors.Is(err, material.ErrAssignmentNotMatched),
		errors.Is(err, client.ErrNoSource), errors.Is(err, upload.ErrUnsupportedFileType):
		fmt.Fprintln(a.out, "Error:", err)
	default:
		a.log.Debug().Err(err).Msg("Command failed")
		fmt.Fprintln(a.out, "Error:", client.Message(err, fallback))
	}
}

func (a *app) applied(ok bool) {
	if !ok {
		fmt.Fprintln(a.out, "Nothing changed.")
		return
	}
	a.printDocument()
}

// ─── Account ──────────────────────────────────────────────────────────

func (a *app) cmdHelp(_ context.Context, _ []string) {
	names := make([]string, 0, len(a.commands))
	for name := range a.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c := a.commands[name]
		fmt.Fprintf(a.out, "  %-16s %-44s %s\n", name, c.usage, c.help)
	}
	fmt.Fprintln(a.out, "  quit")
	fmt.Fprintln(a.out, "Assignments, questions, options and terms are numbered from 1 as shown by \"show\".")
}

func (a *app) readPassword(label string) string {
	fd := int(a.stdin.Fd())
	if !term.IsTerminal(fd) {
		return a.ask(label)
	}
	fmt.Fprint(a.out, label)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(a.out)
	if err != nil {
		return ""
	}
	return string(b)
}

func (a *app) cmdRegister(ctx context.Context, _ []string) {
	form := model.RegisterForm{
		Email:           a.ask("Email: "),
		Password:        a.readPassword("Password: "),
		ConfirmPassword: a.readPassword("Confirm password: "),
	}
	user, err := a.session.Register(ctx, form)
	if err != nil {
		a.report(err, client.FallbackRegister)
		return
	}
	fmt.Fprintf(a.out, "Welcome, %s.\n", user.Email)
}

func (a *app) cmdLogin(ctx context.Context, _ []string) {
	req := model.LoginRequest{
		Email:    a.ask("Email: "),
		Password: a.readPassword("Password: "),
	}
	user, err := a.session.Login(ctx, req)
	if err != nil {
		a.report(err, client.FallbackLogin)
		return
	}
	fmt.Fprintf(a.out, "Signed in as %s.\n", user.Email)
}

func (a *app) cmdLogout(ctx context.Context, _ []string) {
	if err := a.session.Logout(ctx); err != nil {
		a.report(err, client.FallbackLogout)
		return
	}
	a.doc = nil
	fmt.Fprintln(a.out, "Signed out.")
}

func (a *app) cmdWhoami(_ context.Context, _ []string) {
	if u, ok := a.session.Current(); ok {
		fmt.Fprintln(a.out, u.Email)
		return
	}
	fmt.Fprintln(a.out, "Not signed in.")
}

// ─── Materials ────────────────────────────────────────────────────────

func (a *app) cmdList(ctx context.Context, _ []string) {
	materials, err := a.api.ListMaterials(ctx)
	if err != nil {
		a.report(err, client.FallbackList)
		return
	}
	if len(materials) == 0 {
		fmt.Fprintln(a.out, "No materials yet. Use \"create\".")
		return
	}
	for _, m := range materials {
		fmt.Fprintf(a.out, "  %-14s %4d  %-40s %s  %s\n", m.Type, m.ID, m.Title, m.CreatedAt, summaryCounts(m))
	}
}

func (a *app) cmdCreate(ctx context.Context, args []string) {
	kind, ok := parseKind(args[0])
	if !ok {
		fmt.Fprintln(a.out, "Error: kind must be test or study")
		return
	}
	req := model.GenerateRequest{MaterialType: kind, Title: args[1]}

	var file *upload.File
	if len(args) > 2 {
		f, err := upload.Open(args[2])
		if err != nil {
			a.report(err, client.FallbackGenerate)
			return
		}
		file = f
	} else {
		req.Content = a.readText()
	}

	if kind == model.MaterialKindTest {
		if n := a.ask("Number of questions [10]: "); n != "" {
			v, err := strconv.Atoi(n)
			if err != nil {
				fmt.Fprintln(a.out, "Error: not a number")
				return
			}
			req.NumQuestions = v
		}
		if d := a.ask("Difficulty easy|medium|hard [medium]: "); d != "" {
			req.Difficulty = model.Difficulty(d)
		}
	}

	fmt.Fprintln(a.out, "Generating...")
	id, err := a.api.Generate(ctx, req, file)
	if err != nil {
		a.report(err, client.FallbackGenerate)
		return
	}
	fmt.Fprintf(a.out, "Created %s %d.\n", kind, id)
	a.open(ctx, kind, id)
}

// readText reads lines until one holding a single ".".
func (a *app) readText() string {
	fmt.Fprintln(a.out, "Paste the source text, end with a line containing only \".\":")
	var b strings.Builder
	for {
		line, err := a.in.ReadString('\n')
		if strings.TrimSpace(line) == "." {
			break
		}
		b.WriteString(line)
		if err != nil {
			break
		}
	}
	return b.String()
}

func (a *app) cmdOpen(ctx context.Context, args []string) {
	kind, ok := parseKind(args[0])
	if !ok {
		fmt.Fprintln(a.out, "Error: kind must be test or study")
		return
	}
	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		fmt.Fprintln(a.out, "Error: id must be a number")
		return
	}
	if a.doc != nil && a.doc.Dirty() && !a.confirm("Discard unsaved changes?") {
		return
	}
	a.open(ctx, kind, id)
}

func (a *app) open(ctx context.Context, kind model.MaterialKind, id int64) {
	doc, err := material.Open(ctx, a.api, kind, id,
		material.WithConfirmer(material.ConfirmFunc(a.confirm)),
		material.WithLogger(a.log),
	)
	if err != nil {
		a.report(err, client.FallbackLoad)
		return
	}
	a.doc = doc
	a.printDocument()
}

// current returns the open document or tells the user there is none.
func (a *app) current() (*material.Session, bool) {
	if a.doc == nil {
		fmt.Fprintln(a.out, "No material is open. Use \"open\" or \"create\".")
		return nil, false
	}
	return a.doc, true
}

func (a *app) cmdShow(_ context.Context, _ []string) {
	if _, ok := a.current(); ok {
		a.printDocument()
	}
}

func (a *app) cmdReload(ctx context.Context, _ []string) {
	doc, ok := a.current()
	if !ok {
		return
	}
	if doc.Dirty() && !a.confirm("Discard unsaved changes?") {
		return
	}
	if err := doc.Reload(ctx); err != nil {
		a.report(err, client.FallbackLoad)
		return
	}
	a.printDocument()
}

func (a *app) cmdSave(ctx context.Context, _ []string) {
	doc, ok := a.current()
	if !ok {
		return
	}
	if err := doc.Save(ctx); err != nil {
		a.report(err, client.FallbackSave)
		return
	}
	fmt.Fprintln(a.out, "Saved.")
}

func (a *app) cmdClose(_ context.Context, _ []string) {
	doc, ok := a.current()
	if !ok {
		return
	}
	if doc.Dirty() && !a.confirm("Discard unsaved changes?") {
		return
	}
	a.doc = nil
}

func (a *app) cmdDelete(ctx context.Context, _ []string) {
	doc, ok := a.current()
	if !ok {
		return
	}
	if err := doc.Delete(ctx); err != nil {
		a.report(err, client.FallbackDelete)
		return
	}
	a.doc = nil
	fmt.Fprintln(a.out, "Deleted.")
}

func (a *app) cmdExport(ctx context.Context, args []string) {
	doc, ok := a.current()
	if !ok {
		return
	}
	format := model.ExportFormat(strings.ToLower(args[0]))
	if format != model.ExportPDF && format != model.ExportDOCX {
		fmt.Fprintln(a.out, "Error: format must be pdf or docx")
		return
	}
	includeAnswers := len(args) < 2 || args[1] != "student"
	if doc.Dirty() {
		fmt.Fprintln(a.out, "Note: the export shows the saved copy, not your unsaved changes.")
	}

	tmp, err := os.CreateTemp(a.cfg.ExportDir, ".export-*")
	if err != nil {
		a.report(err, client.FallbackExport)
		return
	}
	defer os.Remove(tmp.Name())

	d, err := doc.Export(ctx, format, includeAnswers, tmp)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		a.report(err, client.FallbackExport)
		return
	}

	dest := filepath.Join(a.cfg.ExportDir, d.Filename)
	if err := os.Rename(tmp.Name(), dest); err != nil {
		a.report(err, client.FallbackExport)
		return
	}
	fmt.Fprintf(a.out, "Wrote %s (%d bytes).\n", dest, d.Size)
}

// ─── Test editing ─────────────────────────────────────────────────────

func (a *app) cmdAddAssignment(_ context.Context, _ []string) {
	doc, ok := a.current()
	if !ok {
		return
	}
	_, changed := doc.AddAssignment()
	a.applied(changed)
}

func (a *app) cmdSetAssignment(_ context.Context, args []string) {
	doc, asg, ok := a.assignmentArg(args[0])
	if !ok {
		return
	}
	field := editor.AssignmentField(args[1])
	value, ok := a.fieldValue(string(field), args[2:])
	if !ok {
		return
	}
	a.applied(doc.UpdateAssignment(asg.ID, field, value))
}

func (a *app) cmdDelAssignment(_ context.Context, args []string) {
	doc, asg, ok := a.assignmentArg(args[0])
	if !ok {
		return
	}
	a.applied(doc.DeleteAssignment(asg.ID))
}

func (a *app) cmdMoveAssignment(up bool) func(context.Context, []string) {
	return func(_ context.Context, args []string) {
		doc, asg, ok := a.assignmentArg(args[0])
		if !ok {
			return
		}
		if up {
			a.applied(doc.MoveAssignmentUp(asg.ID))
			return
		}
		a.applied(doc.MoveAssignmentDown(asg.ID))
	}
}

func (a *app) cmdAddQuestion(_ context.Context, args []string) {
	doc, asg, ok := a.assignmentArg(args[0])
	if !ok {
		return
	}
	_, changed := doc.AddQuestion(asg.ID)
	a.applied(changed)
}

func (a *app) cmdSetQuestion(_ context.Context, args []string) {
	doc, asg, q, ok := a.questionArg(args[0], args[1])
	if !ok {
		return
	}
	field := editor.QuestionField(args[2])
	value, ok := a.fieldValue(string(field), args[3:])
	if !ok {
		return
	}
	a.applied(doc.UpdateQuestion(asg.ID, q.ID, field, value))
}

func (a *app) cmdDelQuestion(_ context.Context, args []string) {
	doc, asg, q, ok := a.questionArg(args[0], args[1])
	if !ok {
		return
	}
	a.applied(doc.DeleteQuestion(asg.ID, q.ID))
}

func (a *app) cmdMoveQuestion(up bool) func(context.Context, []string) {
	return func(_ context.Context, args []string) {
		doc, asg, q, ok := a.questionArg(args[0], args[1])
		if !ok {
			return
		}
		if up {
			a.applied(doc.MoveQuestionUp(asg.ID, q.ID))
			return
		}
		a.applied(doc.MoveQuestionDown(asg.ID, q.ID))
	}
}

func (a *app) cmdAddOption(_ context.Context, args []string) {
	doc, asg, q, ok := a.questionArg(args[0], args[1])
	if !ok {
		return
	}
	a.applied(doc.AddOption(asg.ID, q.ID))
}

func (a *app) cmdSetOption(_ context.Context, args []string) {
	doc, asg, q, ok := a.questionArg(args[0], args[1])
	if !ok {
		return
	}
	o, ok := a.optionArg(q, args[2])
	if !ok {
		return
	}
	field := editor.OptionField(args[3])
	value, ok := a.fieldValue(string(field), args[4:])
	if !ok {
		return
	}
	a.applied(doc.UpdateOption(asg.ID, q.ID, o.ID, field, value))
}

func (a *app) cmdDelOption(_ context.Context, args []string) {
	doc, asg, q, ok := a.questionArg(args[0], args[1])
	if !ok {
		return
	}
	o, ok := a.optionArg(q, args[2])
	if !ok {
		return
	}
	a.applied(doc.DeleteOption(asg.ID, q.ID, o.ID))
}

func (a *app) cmdAugment(ctx context.Context, args []string) {
	doc, asg, ok := a.assignmentArg(args[0])
	if !ok {
		return
	}
	count, err := strconv.Atoi(args[1])
	if err != nil {
		fmt.Fprintln(a.out, "Error: count must be a number")
		return
	}
	difficulty := model.DifficultyMedium
	if len(args) > 2 {
		difficulty = model.Difficulty(args[2])
	}
	if asg.ID.IsLocal() {
		fmt.Fprintln(a.out, "The assignment is new; saving the test first.")
	}

	questions, err := doc.Augment(ctx, asg.ID, count, difficulty)
	if err != nil {
		a.report(err, client.FallbackGenerateQuestions)
		return
	}
	fmt.Fprintf(a.out, "Added %d questions.\n", len(questions))
	a.printDocument()
}

// ─── Study material editing ───────────────────────────────────────────

func (a *app) cmdSetStudy(_ context.Context, args []string) {
	doc, ok := a.current()
	if !ok {
		return
	}
	a.applied(doc.UpdateStudyField(editor.StudyField(args[0]), strings.Join(args[1:], " ")))
}

func (a *app) cmdAddTerm(_ context.Context, _ []string) {
	doc, ok := a.current()
	if !ok {
		return
	}
	a.applied(doc.AddTerm())
}

func (a *app) cmdSetTerm(_ context.Context, args []string) {
	doc, ok := a.current()
	if !ok {
		return
	}
	n, ok := a.index(args[0])
	if !ok {
		return
	}
	a.applied(doc.UpdateTerm(n, editor.TermField(args[1]), strings.Join(args[2:], " ")))
}

func (a *app) cmdDelTerm(_ context.Context, args []string) {
	doc, ok := a.current()
	if !ok {
		return
	}
	n, ok := a.index(args[0])
	if !ok {
		return
	}
	a.applied(doc.DeleteTerm(n))
}

// ─── Argument helpers ─────────────────────────────────────────────────

// index turns a 1-based number from the user into a 0-based index.
func (a *app) index(arg string) (int, bool) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		fmt.Fprintf(a.out, "Error: %q is not a position\n", arg)
		return 0, false
	}
	return n - 1, true
}

func (a *app) testDoc() (*material.Session, *model.Test, bool) {
	doc, ok := a.current()
	if !ok {
		return nil, nil, false
	}
	if doc.Test() == nil {
		fmt.Fprintln(a.out, "Error: the open material is not a test")
		return nil, nil, false
	}
	return doc, doc.Test(), true
}

func (a *app) assignmentArg(arg string) (*material.Session, model.Assignment, bool) {
	doc, t, ok := a.testDoc()
	if !ok {
		return nil, model.Assignment{}, false
	}
	i, ok := a.index(arg)
	if !ok {
		return nil, model.Assignment{}, false
	}
	if i >= len(t.Assignments) {
		fmt.Fprintf(a.out, "Error: there is no assignment %s\n", arg)
		return nil, model.Assignment{}, false
	}
	return doc, t.Assignments[i], true
}

func (a *app) questionArg(aArg, qArg string) (*material.Session, model.Assignment, model.Question, bool) {
	doc, asg, ok := a.assignmentArg(aArg)
	if !ok {
		return nil, asg, model.Question{}, false
	}
	i, ok := a.index(qArg)
	if !ok {
		return nil, asg, model.Question{}, false
	}
	if i >= len(asg.Questions) {
		fmt.Fprintf(a.out, "Error: assignment %s has no question %s\n", aArg, qArg)
		return nil, asg, model.Question{}, false
	}
	return doc, asg, asg.Questions[i], true
}

func (a *app) optionArg(q model.Question, arg string) (model.Option, bool) {
	i, ok := a.index(arg)
	if !ok {
		return model.Option{}, false
	}
	if i >= len(q.Options) {
		fmt.Fprintf(a.out, "Error: the question has no option %s\n", arg)
		return model.Option{}, false
	}
	return q.Options[i], true
}

// fieldValue converts the words after a field name into the value type the
// editor expects for that field.
func (a *app) fieldValue(field string, words []string) (interface{}, bool) {
	raw := strings.Join(words, " ")
	switch field {
	case string(editor.AssignmentMaxPoints), string(editor.QuestionPoints):
		n, err := strconv.Atoi(raw)
		if err != nil {
			fmt.Fprintf(a.out, "Error: %s must be a whole number\n", field)
			return nil, false
		}
		return n, true
	case string(editor.OptionCorrect):
		b, err := strconv.ParseBool(raw)
		if err != nil {
			fmt.Fprintf(a.out, "Error: %s must be true or false\n", field)
			return nil, false
		}
		return b, true
	}
	return raw, true
}

func parseKind(s string) (model.MaterialKind, bool) {
	switch strings.ToLower(s) {
	case "test":
		return model.MaterialKindTest, true
	case "study", "study_material":
		return model.MaterialKindStudyMaterial, true
	}
	return "", false
}
