package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tasktrack/tasktrack/internal/client"
	"github.com/tasktrack/tasktrack/internal/model"
)

var errNotLoggedIn = errors.New("not logged in")

// App implements the REPL commands on top of a session and a task view.
type App struct {
	session *client.Session
	view    *client.TaskView
	reader  *bufio.Reader
	out     io.Writer
}

func newApp(session *client.Session, view *client.TaskView, reader *bufio.Reader, out io.Writer) *App {
	return &App{session: session, view: view, reader: reader, out: out}
}

func (a *App) isLoggedIn() bool { return a.session.IsAuthenticated() }

func (a *App) status() string {
	if !a.isLoggedIn() {
		return "guest"
	}
	if name := a.session.Username(); name != "" {
		return name
	}
	return "logged in"
}

func (a *App) readCommand() (string, error) {
	return readLine(a.reader, fmt.Sprintf("tasks [%s]> ", a.status()), a.out)
}

// greet loads the list when a persisted session exists.
func (a *App) greet(ctx context.Context) {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Welcome. Type 'register' or 'login' to begin, 'help' for commands.")
		return
	}
	_ = a.List(ctx, nil)
}

// Register creates an account and logs in with it.
func (a *App) Register(ctx context.Context, args []string) error {
	username, password, err := a.credentials(args)
	if err != nil {
		return a.fail(err)
	}
	if err := a.session.Register(ctx, username, password); err != nil {
		return a.report(err)
	}
	fmt.Fprintf(a.out, "Registered and logged in as %s\n", username)
	return a.List(ctx, nil)
}

// Login authenticates and shows the task list.
func (a *App) Login(ctx context.Context, args []string) error {
	username, password, err := a.credentials(args)
	if err != nil {
		return a.fail(err)
	}
	if err := a.session.Login(ctx, username, password); err != nil {
		return a.report(err)
	}
	fmt.Fprintf(a.out, "Logged in as %s\n", username)
	return a.List(ctx, nil)
}

// Logout ends the session locally even when the server is unreachable.
func (a *App) Logout(ctx context.Context, _ []string) error {
	if !a.isLoggedIn() {
		return a.fail(errNotLoggedIn)
	}
	err := a.session.Logout(ctx)
	a.view.Reset()
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

// List refreshes and prints the tasks.
func (a *App) List(ctx context.Context, _ []string) error {
	if !a.isLoggedIn() {
		return a.fail(errNotLoggedIn)
	}
	if err := a.view.Refresh(ctx); err != nil {
		return a.fail(err)
	}
	a.printTasks()
	return nil
}

// Add composes a draft from the arguments and prompts, then submits it.
func (a *App) Add(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		return a.fail(errNotLoggedIn)
	}

	draft := a.view.Draft()
	if len(args) > 0 {
		draft.Title = strings.Join(args, " ")
	} else {
		title, err := readLine(a.reader, a.promptWithDefault("Title", draft.Title), a.out)
		if err != nil {
			return a.fail(err)
		}
		if title != "" {
			draft.Title = title
		}
	}

	desc, err := readLine(a.reader, a.promptWithDefault("Description (optional)", draft.Description), a.out)
	if err != nil {
		return a.fail(err)
	}
	if desc != "" {
		draft.Description = desc
	}

	prio, err := readLine(a.reader, "Priority [low/medium/high] (optional): ", a.out)
	if err != nil {
		return a.fail(err)
	}
	if prio != "" {
		p, ok := model.ParsePriority(prio)
		if !ok {
			a.view.SetDraft(draft)
			return a.fail(fmt.Errorf("unknown priority %q", prio))
		}
		draft.Priority = p
	}

	a.view.SetDraft(draft)
	task, err := a.view.Create(ctx)
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintf(a.out, "Created %s\n", formatTask(*task))
	return nil
}

// Toggle flips completion of the task with the given id.
func (a *App) Toggle(ctx context.Context, args []string) error {
	id, err := a.taskArg(args)
	if err != nil {
		return a.fail(err)
	}
	task, err := a.view.Toggle(ctx, id)
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintf(a.out, "Updated %s\n", formatTask(*task))
	return nil
}

// Edit prompts for a new title and description. Empty input keeps the
// current value; "-" clears the description.
func (a *App) Edit(ctx context.Context, args []string) error {
	id, err := a.taskArg(args)
	if err != nil {
		return a.fail(err)
	}
	current, ok := a.lookup(id)
	if !ok {
		return a.fail(client.ErrNoSuchTask)
	}

	title, err := readLine(a.reader, a.promptWithDefault("Title", current.Title), a.out)
	if err != nil {
		return a.fail(err)
	}
	if title == "" {
		title = current.Title
	}

	curDesc := ""
	if current.Description != nil {
		curDesc = *current.Description
	}
	descIn, err := readLine(a.reader, a.promptWithDefault("Description ('-' to clear)", curDesc), a.out)
	if err != nil {
		return a.fail(err)
	}
	desc := current.Description
	switch descIn {
	case "":
	case "-":
		desc = nil
	default:
		desc = &descIn
	}

	task, err := a.view.Edit(ctx, id, title, desc)
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintf(a.out, "Updated %s\n", formatTask(*task))
	return nil
}

// Delete removes the task with the given id.
func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := a.taskArg(args)
	if err != nil {
		return a.fail(err)
	}
	if err := a.view.Delete(ctx, id); err != nil {
		return a.fail(err)
	}
	fmt.Fprintf(a.out, "Deleted task #%d\n", id)
	return nil
}

func (a *App) credentials(args []string) (string, string, error) {
	var username string
	if len(args) > 0 {
		username = args[0]
	} else {
		u, err := readLine(a.reader, "Username: ", a.out)
		if err != nil {
			return "", "", err
		}
		username = u
	}
	password, err := readSecret(a.reader, "Password: ", a.out)
	if err != nil {
		return "", "", err
	}
	return username, password, nil
}

func (a *App) taskArg(args []string) (int64, error) {
	if !a.isLoggedIn() {
		return 0, errNotLoggedIn
	}
	if len(args) == 0 {
		return 0, errors.New("task id required")
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(args[0], "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task id %q", args[0])
	}
	return id, nil
}

func (a *App) lookup(id int64) (model.Task, bool) {
	for _, t := range a.view.Tasks() {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

func (a *App) promptWithDefault(label, current string) string {
	if current == "" {
		return label + ": "
	}
	return fmt.Sprintf("%s [%s]: ", label, current)
}

// fail prints err for the user. A rejected token ends the local session.
func (a *App) fail(err error) error {
	switch {
	case errors.Is(err, errNotLoggedIn):
		fmt.Fprintln(a.out, "Please log in first.")
	case a.isLoggedIn() && client.IsAuthError(err):
		_ = a.session.Expire()
		a.view.Reset()
		fmt.Fprintln(a.out, "Session expired, please log in again.")
	default:
		return a.report(err)
	}
	return err
}

// report prints err without touching the session.
func (a *App) report(err error) error {
	fmt.Fprintln(a.out, "Error:", err)
	return err
}

func (a *App) printTasks() {
	tasks := a.view.Tasks()
	if len(tasks) == 0 {
		fmt.Fprintln(a.out, "No tasks yet. Use 'add' to create one.")
		return
	}
	for _, t := range tasks {
		fmt.Fprintln(a.out, formatTask(t))
	}
}

func formatTask(t model.Task) string {
	mark := " "
	if t.IsComplete {
		mark = "x"
	}
	s := fmt.Sprintf("[%s] #%d %s (%s)", mark, t.ID, t.Title, t.Priority)
	if t.Description != nil && *t.Description != "" {
		s += " - " + *t.Description
	}
	return s
}
