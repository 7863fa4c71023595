package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/claude/liftlog/internal/client"
	"github.com/claude/liftlog/internal/mirror"
	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/tracking"
	"github.com/google/uuid"
)

var errUsage = errors.New("invalid usage")

type app struct {
	client *client.Client
	mirror *mirror.Mirror
	out    io.Writer
	now    func() time.Time
}

func (a *app) run(ctx context.Context, args []string) error {
	cmd, args := args[0], args[1:]
	switch cmd {
	case "workouts":
		return a.workouts(ctx)
	case "start":
		return a.start(ctx, args)
	case "status":
		return a.status(ctx)
	case "pause":
		return a.onActive(ctx, a.client.PauseSession)
	case "resume":
		return a.onActive(ctx, a.client.ResumeSession)
	case "abandon":
		return a.onActive(ctx, a.client.AbandonSession)
	case "complete":
		return a.complete(ctx, args)
	case "ex-start":
		return a.exercise(ctx, args, a.client.StartExercise)
	case "ex-complete":
		return a.exercise(ctx, args, a.client.CompleteExercise)
	case "ex-skip":
		return a.exercise(ctx, args, a.client.SkipExercise)
	case "set-start":
		return a.setStart(ctx, args)
	case "set-complete":
		return a.setComplete(ctx, args)
	case "history":
		return a.history(ctx, args)
	case "results":
		return a.results(ctx, args)
	}
	return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
}

// parseArgs accepts positional arguments before or after flags.
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	var pos []string
	for len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		pos = append(pos, args[0])
		args = args[1:]
	}
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %v", errUsage, err)
	}
	return append(pos, fs.Args()...), nil
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func (a *app) workouts(ctx context.Context) error {
	workouts, err := a.client.ListWorkouts(ctx, 0)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tFORMAT\tEXERCISES")
	for _, w := range workouts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", w.ID, w.Name, w.Format, len(w.Exercises))
	}
	return tw.Flush()
}

func (a *app) start(ctx context.Context, args []string) error {
	fs := newFlagSet("start")
	notes := fs.String("notes", "", "session notes")
	pos, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(pos) != 1 {
		return fmt.Errorf("%w: start <workout-id>", errUsage)
	}
	wid, err := uuid.Parse(pos[0])
	if err != nil {
		return fmt.Errorf("invalid workout id: %w", err)
	}

	view, err := a.client.StartSession(ctx, models.StartSessionRequest{WorkoutID: wid, Notes: *notes})
	if err != nil {
		return err
	}
	return a.show(ctx, view)
}

// status prints the server's active session and mirrors it. Only when the
// server cannot be reached does it fall back to the mirrored copy.
func (a *app) status(ctx context.Context) error {
	view, err := a.client.GetActiveSession(ctx, 0)
	if err != nil {
		if !client.Unreachable(err) {
			return err
		}
		snap, merr := a.mirror.Active(ctx)
		if merr != nil || snap == nil {
			return err
		}
		fmt.Fprintf(a.out, "OFFLINE: server unreachable, showing copy synced %s\n", snap.SyncedAt.Local().Format(time.DateTime))
		printSession(a.out, &snap.View)
		return nil
	}

	if view == nil {
		if err := a.mirror.ClearActive(ctx); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "No active session.")
		return nil
	}
	return a.show(ctx, view)
}

func (a *app) activeID(ctx context.Context) (string, error) {
	view, err := a.client.GetActiveSession(ctx, 0)
	if err != nil {
		return "", err
	}
	if view == nil {
		return "", errors.New("no active session")
	}
	return view.ID, nil
}

func (a *app) onActive(ctx context.Context, fn func(context.Context, string) (*tracking.SessionView, error)) error {
	id, err := a.activeID(ctx)
	if err != nil {
		return err
	}
	view, err := fn(ctx, id)
	if err != nil {
		return err
	}
	return a.show(ctx, view)
}

func (a *app) complete(ctx context.Context, args []string) error {
	fs := newFlagSet("complete")
	rating := fs.Int("rating", 0, "rating 1-5")
	mood := fs.String("mood", "", "mood")
	energy := fs.Int("energy", 0, "energy level 1-10")
	notes := fs.String("notes", "", "notes")
	public := fs.Bool("public", false, "share the result")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}

	c := tracking.Completion{Rating: *rating, IsPublic: *public}
	if *mood != "" {
		c.Mood = mood
	}
	if *energy != 0 {
		c.EnergyLevel = energy
	}
	if *notes != "" {
		c.Notes = notes
	}

	id, err := a.activeID(ctx)
	if err != nil {
		return err
	}
	done, err := a.client.CompleteSession(ctx, id, c)
	if err != nil {
		return err
	}
	if err := a.show(ctx, done.Session); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Result %s recorded: rating %d, %s active.\n", done.Result.ID, done.Result.Rating, formatSeconds(done.Result.ActiveSeconds))
	return nil
}

func (a *app) exercise(ctx context.Context, args []string, fn func(context.Context, string, uuid.UUID) (*tracking.SessionView, error)) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: expected <exercise-id>", errUsage)
	}
	exID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid exercise id: %w", err)
	}
	id, err := a.activeID(ctx)
	if err != nil {
		return err
	}
	view, err := fn(ctx, id, exID)
	if err != nil {
		return err
	}
	return a.show(ctx, view)
}

func setTarget(pos []string) (uuid.UUID, int, error) {
	if len(pos) != 2 {
		return uuid.Nil, 0, fmt.Errorf("%w: expected <exercise-id> <set>", errUsage)
	}
	exID, err := uuid.Parse(pos[0])
	if err != nil {
		return uuid.Nil, 0, fmt.Errorf("invalid exercise id: %w", err)
	}
	n, err := strconv.Atoi(pos[1])
	if err != nil || n < 1 {
		return uuid.Nil, 0, fmt.Errorf("%w: set must be a positive integer, got %q", errUsage, pos[1])
	}
	return exID, n, nil
}

func (a *app) setStart(ctx context.Context, args []string) error {
	exID, n, err := setTarget(args)
	if err != nil {
		return err
	}
	id, err := a.activeID(ctx)
	if err != nil {
		return err
	}
	view, err := a.client.StartSet(ctx, id, exID, n)
	if err != nil {
		return err
	}
	return a.show(ctx, view)
}

func (a *app) setComplete(ctx context.Context, args []string) error {
	fs := newFlagSet("set-complete")
	reps := fs.Int("reps", -1, "reps performed")
	weight := fs.Float64("weight", -1, "weight in kg")
	distance := fs.Float64("distance", -1, "distance in meters")
	duration := fs.Int("duration", -1, "duration in seconds")
	rest := fs.Int("rest", -1, "rest in seconds")
	rpe := fs.Int("rpe", 0, "rate of perceived exertion 1-10")
	notes := fs.String("notes", "", "notes")
	pos, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	exID, n, err := setTarget(pos)
	if err != nil {
		return err
	}

	// Only flags that were given are sent.
	var d models.SetData
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "reps":
			d.ActualReps = reps
		case "weight":
			d.ActualWeightKg = weight
		case "distance":
			d.ActualDistanceMeters = distance
		case "duration":
			d.ActualDurationSeconds = duration
		case "rest":
			d.ActualRestSeconds = rest
		case "rpe":
			d.RPE = rpe
		case "notes":
			d.Notes = notes
		}
	})

	id, err := a.activeID(ctx)
	if err != nil {
		return err
	}
	view, err := a.client.CompleteSet(ctx, id, exID, n, d)
	if err != nil {
		return err
	}
	return a.show(ctx, view)
}

func (a *app) history(ctx context.Context, args []string) error {
	fs := newFlagSet("history")
	limit := fs.Int("limit", 20, "number of sessions")
	workout := fs.String("workout", "", "only sessions of this workout id")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}

	f := tracking.HistoryFilter{Limit: *limit}
	if *workout != "" {
		wid, err := uuid.Parse(*workout)
		if err != nil {
			return fmt.Errorf("invalid workout id: %w", err)
		}
		f.WorkoutID = &wid
	}

	sessions, err := a.client.ListSessions(ctx, 0, f)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tSTARTED\tENDED")
	for _, s := range sessions {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.ID, s.Status, formatTime(s.StartTime), formatTime(s.EndTime))
	}
	return tw.Flush()
}

func (a *app) results(ctx context.Context, args []string) error {
	fs := newFlagSet("results")
	limit := fs.Int("limit", 20, "number of results")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}

	results, err := a.client.ListWorkoutResults(ctx, 0, *limit)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "COMPLETED\tSESSION\tRATING\tACTIVE\tVOLUME\tDONE")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%.1f\t%.0f%%\n",
			r.CompletedAt.Local().Format(time.DateTime), r.SessionID, r.Rating,
			formatSeconds(r.ActiveSeconds), r.Stats.TotalVolume, r.Stats.CompletionPercentage)
	}
	return tw.Flush()
}

// show mirrors a snapshot returned by the server and prints it.
func (a *app) show(ctx context.Context, v *tracking.SessionView) error {
	if err := a.mirror.Save(ctx, v, a.now()); err != nil {
		return err
	}
	printSession(a.out, v)
	return nil
}

func printSession(w io.Writer, v *tracking.SessionView) {
	fmt.Fprintf(w, "Session %s  %s  active %s\n", v.ID, v.Status, formatSeconds(v.ActiveSeconds))
	fmt.Fprintf(w, "  sets %d/%d  exercises %d done, %d skipped of %d  volume %.1f  %.0f%% complete\n",
		v.Stats.CompletedSets, v.Stats.TotalSets,
		v.Stats.CompletedExercises, v.Stats.SkippedExercises, v.Stats.TotalExercises,
		v.Stats.TotalVolume, v.Stats.CompletionPercentage)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, ex := range v.Exercises {
		fmt.Fprintf(tw, "  %d. %s\t%s\t%s\n", ex.OrderInWorkout+1, ex.ExerciseName, ex.Status, ex.ExerciseID)
		for _, s := range ex.Sets {
			fmt.Fprintf(tw, "       set %d\t%s\t%s\n", s.SetNumber, s.Status, formatSet(s))
		}
	}
	tw.Flush()
}

func formatSet(s models.SetProgress) string {
	var parts []string
	if s.ActualReps != nil {
		parts = append(parts, fmt.Sprintf("%d reps", *s.ActualReps))
	}
	if s.ActualWeightKg != nil {
		parts = append(parts, fmt.Sprintf("%g kg", *s.ActualWeightKg))
	}
	if s.ActualDistanceMeters != nil {
		parts = append(parts, fmt.Sprintf("%g m", *s.ActualDistanceMeters))
	}
	if s.ActualDurationSeconds != nil {
		parts = append(parts, formatSeconds(int64(*s.ActualDurationSeconds)))
	}
	if s.RPE != nil {
		parts = append(parts, fmt.Sprintf("RPE %d", *s.RPE))
	}
	return strings.Join(parts, ", ")
}

func formatSeconds(s int64) string {
	return (time.Duration(s) * time.Second).String()
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format(time.DateTime)
}
