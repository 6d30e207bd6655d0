package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stefanpenner/learnlog/pkg/course"
	"github.com/stefanpenner/learnlog/pkg/tui"
)

var (
	errNameRequired = errors.New("name required")
	errNoTerminal   = errors.New("--interactive needs a terminal")
)

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List active and recently completed courses",
	Aliases: []string{"ls"},
	Args:    cobra.NoArgs,
	RunE:    runList,
}

var showCmd = &cobra.Command{
	Use:   "show <course>",
	Short: "Show a course's details",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a course",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAdd,
}

var editCmd = &cobra.Command{
	Use:   "edit <course>",
	Short: "Edit a course with flags, a form, or in $EDITOR",
	Args:  cobra.ExactArgs(1),
	RunE:  runEdit,
}

var toggleCmd = &cobra.Command{
	Use:   "toggle <course> <checkpoint>",
	Short: "Toggle a checkpoint (numbered from 1)",
	Args:  cobra.ExactArgs(2),
	RunE:  runToggle,
}

var doneCmd = &cobra.Command{
	Use:   "done <course>",
	Short: "Mark a course as done",
	Args:  cobra.ExactArgs(1),
	RunE:  runDone,
}

var deleteCmd = &cobra.Command{
	Use:     "delete <course>",
	Short:   "Delete a course",
	Aliases: []string{"rm"},
	Args:    cobra.ExactArgs(1),
	RunE:    runDelete,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show overall progress",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List recently completed courses",
	Args:  cobra.NoArgs,
	RunE:  runRecent,
}

var exportCmd = &cobra.Command{
	Use:   "export <course>",
	Short: "Print a course as a markdown document",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Add a course from a markdown document (- for stdin)",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

var (
	listAll bool

	addDesc        string
	addDue         string
	addCheckpoints []string
	addInteractive bool

	editName        string
	editDesc        string
	editDue         string
	editClearDue    bool
	editCheckpoints []string
	editCompleted   bool
	editInteractive bool

	doneForce bool

	recentLimit int
)

func init() {
	listCmd.Flags().BoolVarP(&listAll, "all", "a", false, "include every completed course")

	addCmd.Flags().StringVar(&addDesc, "desc", "", "description")
	addCmd.Flags().StringVar(&addDue, "due", "", "due date (YYYY-MM-DD)")
	addCmd.Flags().StringArrayVarP(&addCheckpoints, "checkpoint", "c", nil, "checkpoint name (repeatable)")
	addCmd.Flags().BoolVarP(&addInteractive, "interactive", "i", false, "fill in the course with a form")

	editCmd.Flags().StringVar(&editName, "name", "", "new name")
	editCmd.Flags().StringVar(&editDesc, "desc", "", "new description")
	editCmd.Flags().StringVar(&editDue, "due", "", "new due date (YYYY-MM-DD)")
	editCmd.Flags().BoolVar(&editClearDue, "clear-due", false, "remove the due date")
	editCmd.Flags().StringArrayVarP(&editCheckpoints, "checkpoint", "c", nil, "replace checkpoints (repeatable; prefix [x] for done)")
	editCmd.Flags().BoolVar(&editCompleted, "completed", false, "set completion state (--completed=false reopens)")
	editCmd.Flags().BoolVarP(&editInteractive, "interactive", "i", false, "edit the course with a form")

	doneCmd.Flags().BoolVarP(&doneForce, "force", "f", false, "mark done even with open checkpoints")

	recentCmd.Flags().IntVarP(&recentLimit, "limit", "n", 0, "how many to show (default from config)")

	rootCmd.AddCommand(listCmd, showCmd, addCmd, editCmd, toggleCmd, doneCmd,
		deleteCmd, statsCmd, recentCmd, exportCmd, importCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	s := current.store
	out := cmd.OutOrStdout()

	active := s.Active()
	var completed []course.Course
	if listAll {
		for _, c := range s.Courses() {
			if c.IsCompleted {
				completed = append(completed, c)
			}
		}
	} else {
		completed = s.RecentlyCompleted(0)
	}

	if flagJSON {
		return outputJSON(out, map[string][]course.Course{
			"active":    nonNil(active),
			"completed": nonNil(completed),
		})
	}

	if len(active) == 0 && len(completed) == 0 {
		fmt.Fprintln(out, "No courses yet. Add one with: learnlog add <name>")
		return nil
	}
	fmt.Fprintln(out, "ACTIVE")
	if len(active) == 0 {
		fmt.Fprintln(out, "  (none)")
	}
	for _, c := range active {
		fmt.Fprint(out, "  ")
		printCourseLine(out, s, c)
	}
	if len(completed) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "RECENTLY COMPLETED")
		for _, c := range completed {
			fmt.Fprint(out, "  ")
			printCourseLine(out, s, c)
		}
	}
	return nil
}

func nonNil(courses []course.Course) []course.Course {
	if courses == nil {
		return []course.Course{}
	}
	return courses
}

func runShow(cmd *cobra.Command, args []string) error {
	c, err := resolveCourse(current.store, args[0])
	if err != nil {
		return err
	}
	if flagJSON {
		return outputJSON(cmd.OutOrStdout(), c)
	}
	printCourse(cmd.OutOrStdout(), current.store, c)
	return nil
}

func runAdd(cmd *cobra.Command, args []string) error {
	d := course.Draft{Description: addDesc}
	if len(args) == 1 {
		d.Name = strings.TrimSpace(args[0])
	}
	due, err := course.ParseDate(addDue)
	if err != nil {
		return err
	}
	d.DueDate = due
	d.Checkpoints = checkpointDrafts(addCheckpoints)

	if addInteractive {
		if !isInteractive() {
			return errNoTerminal
		}
		d, err = tui.RunCourseForm("New course", d)
		if err != nil {
			return err
		}
	}

	c, ok, err := current.store.Add(d)
	if err != nil {
		return err
	}
	if !ok {
		return errNameRequired
	}

	if flagJSON {
		return outputJSON(cmd.OutOrStdout(), c)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s [%d]\n", c.Name, c.ID)
	return nil
}

// checkpointDrafts turns flag values into drafts; a leading "[x]" marks one
// done.
func checkpointDrafts(names []string) []course.CheckpointDraft {
	return tui.ParseCheckpointsText(strings.Join(names, "\n"))
}

func runEdit(cmd *cobra.Command, args []string) error {
	c, err := resolveCourse(current.store, args[0])
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	d := course.DraftFrom(c)
	byFlags := false
	if flags.Changed("name") {
		d.Name, byFlags = strings.TrimSpace(editName), true
	}
	if flags.Changed("desc") {
		d.Description, byFlags = editDesc, true
	}
	if flags.Changed("due") {
		due, err := course.ParseDate(editDue)
		if err != nil {
			return err
		}
		d.DueDate, byFlags = due, true
	}
	if editClearDue {
		d.DueDate, byFlags = course.Date{}, true
	}
	if flags.Changed("checkpoint") {
		d.Checkpoints, byFlags = checkpointDrafts(editCheckpoints), true
	}
	if flags.Changed("completed") {
		completed := editCompleted
		d.IsCompleted, byFlags = &completed, true
	}

	switch {
	case editInteractive && !isInteractive():
		return errNoTerminal
	case editInteractive:
		d, err = tui.RunCourseForm("Edit course", d)
	case !byFlags:
		d, err = editInEditor(c)
	}
	if err != nil {
		return err
	}

	updated, ok, err := current.store.Edit(c.ID, d)
	if err != nil {
		return err
	}
	if !ok {
		return errNameRequired
	}

	if flagJSON {
		return outputJSON(cmd.OutOrStdout(), updated)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated: %s (%d%%)\n", updated.Name, updated.Progress)
	return nil
}

func runToggle(cmd *cobra.Command, args []string) error {
	c, err := resolveCourse(current.store, args[0])
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid checkpoint number %q", args[1])
	}

	updated, ok, err := current.store.ToggleCheckpoint(c.ID, n-1)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("checkpoint %d not found (course has %d)", n, len(c.Checkpoints))
	}

	if flagJSON {
		return outputJSON(cmd.OutOrStdout(), updated)
	}
	cp := updated.Checkpoints[n-1]
	box := "[ ]"
	if cp.Completed {
		box = "[x]"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s → %s %d%%\n", box, cp.Name, updated.Name, updated.Progress)
	return nil
}

func runDone(cmd *cobra.Command, args []string) error {
	c, err := resolveCourse(current.store, args[0])
	if err != nil {
		return err
	}
	if c.IsCompleted {
		return fmt.Errorf("%s is already completed", c.Name)
	}
	if !doneForce && !course.CanMarkDone(c) {
		open := len(c.Checkpoints) - c.CompletedCount()
		return fmt.Errorf("%s has %d open checkpoint(s); finish them or use --force", c.Name, open)
	}

	updated, ok, err := current.store.MarkDone(c.ID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("course not found: %s", args[0])
	}

	if flagJSON {
		return outputJSON(cmd.OutOrStdout(), updated)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s → completed\n", updated.Name)
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	c, err := resolveCourse(current.store, args[0])
	if err != nil {
		return err
	}
	ok, err := current.store.Delete(c.ID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("course not found: %s", args[0])
	}

	if flagJSON {
		return outputJSON(cmd.OutOrStdout(), map[string]int64{"deleted": c.ID})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted: %s\n", c.Name)
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	st := collectStats(current.store)
	if flagJSON {
		return outputJSON(cmd.OutOrStdout(), st)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Overall progress: %d%%\n", st.Overall)
	fmt.Fprintf(out, "Active: %d\n", st.Active)
	fmt.Fprintf(out, "Completed: %d\n", st.Completed)
	if st.DueToday > 0 {
		fmt.Fprintf(out, "Due today: %d\n", st.DueToday)
	}
	if st.Overdue > 0 {
		fmt.Fprintf(out, "Overdue: %d\n", st.Overdue)
	}
	return nil
}

func runRecent(cmd *cobra.Command, args []string) error {
	recent := current.store.RecentlyCompleted(recentLimit)
	if flagJSON {
		return outputJSON(cmd.OutOrStdout(), nonNil(recent))
	}
	if len(recent) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Nothing completed yet.")
		return nil
	}
	for _, c := range recent {
		printCourseLine(cmd.OutOrStdout(), current.store, c)
	}
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	c, err := resolveCourse(current.store, args[0])
	if err != nil {
		return err
	}
	doc, err := course.RenderDocument(c)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), doc)
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	var raw []byte
	var err error
	if args[0] == "-" {
		raw, err = io.ReadAll(cmd.InOrStdin())
	} else {
		raw, err = os.ReadFile(args[0])
	}
	if err != nil {
		return err
	}

	d, err := course.ParseDocument(string(raw))
	if err != nil {
		return fmt.Errorf("parsing %s: %w", args[0], err)
	}

	c, ok, err := current.store.Import(d)
	if err != nil {
		return err
	}
	if !ok {
		return errNameRequired
	}

	if flagJSON {
		return outputJSON(cmd.OutOrStdout(), c)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported: %s [%d] (%d%%)\n", c.Name, c.ID, c.Progress)
	return nil
}
