// Command bloomctl is a terminal client of the learning API. It drives the
// same sessions an app screen would and prints their state.
//
//	bloomctl [-config path] [-email e -password p] catalog|home|course <id>|lesson <id>|complete <id>|stats
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/phrazzld/bloom/internal/config"
	"github.com/phrazzld/bloom/internal/domain/content"
	"github.com/phrazzld/bloom/internal/domain/stats"
	"github.com/phrazzld/bloom/internal/events"
	"github.com/phrazzld/bloom/internal/gateway"
	"github.com/phrazzld/bloom/internal/platform/logger"
	"github.com/phrazzld/bloom/internal/session"
)

var errUsage = errors.New("usage: bloomctl [-config path] [-email e -password p] catalog|home|course <id>|lesson <id>|complete <id>|stats")

type options struct {
	email    string
	password string
	args     []string
}

func main() {
	configPath := flag.String("config", "", "path to a config file")
	email := flag.String("email", os.Getenv("BLOOM_EMAIL"), "account email")
	password := flag.String("password", os.Getenv("BLOOM_PASSWORD"), "account password")
	logLevel := flag.String("log-level", "warn", "log level")
	flag.Parse()

	cfg, err := config.LoadGateway(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logger.New(os.Stderr, *logLevel)
	gw := gateway.NewClient(*cfg, gateway.NewMemoryTokenStore(), log)

	opts := options{email: *email, password: *password, args: flag.Args()}
	if err := run(ctx, gw, log, os.Stdout, opts); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, gw gateway.Gateway, log *slog.Logger, w io.Writer, opts options) error {
	if len(opts.args) == 0 {
		return errUsage
	}

	if opts.email != "" {
		if _, err := gw.Login(ctx, opts.email, opts.password); err != nil {
			return fmt.Errorf("login failed: %w", err)
		}
		defer gw.Logout()
	}

	cmd, rest := opts.args[0], opts.args[1:]
	switch cmd {
	case "catalog":
		return printCatalog(ctx, gw, log, w)
	case "home":
		return printHome(ctx, gw, log, w)
	case "course":
		if len(rest) != 1 {
			return errUsage
		}
		return printCourse(ctx, gw, log, w, rest[0])
	case "lesson":
		if len(rest) != 1 {
			return errUsage
		}
		return printLesson(ctx, gw, log, w, rest[0])
	case "complete":
		if len(rest) != 1 {
			return errUsage
		}
		return completeLesson(ctx, gw, log, w, rest[0])
	case "stats":
		raw, err := gw.UserStats(ctx)
		if err != nil {
			return err
		}
		printStats(w, stats.DeriveDisplayStats(raw))
		return nil
	default:
		return errUsage
	}
}

func printCatalog(ctx context.Context, gw gateway.Gateway, log *slog.Logger, w io.Writer) error {
	catalog := session.NewCatalog(gw, log)
	if err := catalog.Load(ctx); err != nil {
		return err
	}
	for _, category := range catalog.Categories() {
		fmt.Fprintf(w, "# %s\n", category.Name)
		if err := catalog.SelectCategory(ctx, category.ID); err != nil {
			return err
		}
		for _, course := range catalog.Courses() {
			fmt.Fprintf(w, "  %s\t%s (%d lessons)\n", course.ID, course.Title, course.LessonCount)
		}
	}
	return nil
}

func printHome(ctx context.Context, gw gateway.Gateway, log *slog.Logger, w io.Writer) error {
	home := session.NewHome(gw, log)
	if err := home.Load(ctx); err != nil {
		return err
	}
	for _, course := range home.Recommended() {
		fmt.Fprintf(w, "* %s\t%s\n", course.ID, course.Title)
	}
	if id, ok := home.FirstLessonID(); ok {
		fmt.Fprintf(w, "start with lesson %s\n", id)
	}
	return nil
}

func printCourse(ctx context.Context, gw gateway.Gateway, log *slog.Logger, w io.Writer, courseID string) error {
	detail := session.NewCourseDetail(gw, nil, log)
	if err := detail.Load(ctx, courseID); err != nil {
		return err
	}

	course := detail.Course()
	state := detail.State()
	fmt.Fprintf(w, "%s (%d/%d completed)\n", course.Title, state.Completed, state.Total)
	for i, level := range course.Levels {
		fmt.Fprintf(w, "%d. %s\n", i+1, level.Title)
		for j, lesson := range level.Lessons {
			fmt.Fprintf(w, "   [%s] %s\t%s\n", detail.LockState(i, j), lesson.ID, lesson.Title)
		}
	}
	if next, ok := detail.NextLessonID(); ok {
		fmt.Fprintf(w, "next: %s\n", next)
	}
	printStats(w, stats.DisplayStats{StreakCount: detail.StreakCount(), Energy: detail.Energy()})
	return nil
}

func printLesson(ctx context.Context, gw gateway.Gateway, log *slog.Logger, w io.Writer, lessonID string) error {
	player := session.NewLessonPlayer(gw, nil, log)
	if err := player.Load(ctx, lessonID); err != nil {
		return err
	}

	fmt.Fprintf(w, "%s\n", player.Lesson().Title)
	for {
		item, ok := player.Current()
		if !ok {
			break
		}
		printItem(w, player.Index()+1, item)
		if q, isQuestion := item.Question(); isQuestion {
			player.Answer(q.CorrectIndex)
		}
		if !player.Next() {
			break
		}
	}
	return nil
}

func printItem(w io.Writer, n int, item content.Item) {
	text := item.Data.PlainText()
	if item.Placeholder() {
		text = "(unavailable)"
	}
	fmt.Fprintf(w, "--- %d [%s]\n%s\n", n, item.Data.Kind(), strings.TrimSpace(text))
}

func completeLesson(ctx context.Context, gw gateway.Gateway, log *slog.Logger, w io.Writer, lessonID string) error {
	emitter := events.NewInMemoryEventEmitter(log)
	refresher := session.NewStatsRefresher(gw, log)
	emitter.RegisterHandler(refresher)

	player := session.NewLessonPlayer(gw, emitter, log)
	if err := player.Load(ctx, lessonID); err != nil {
		return err
	}
	if err := player.Complete(ctx); err != nil {
		return err
	}
	fmt.Fprintf(w, "completed %s\n", lessonID)
	printStats(w, refresher.Stats())
	return nil
}

func printStats(w io.Writer, s stats.DisplayStats) {
	fmt.Fprintf(w, "streak %d, energy %d\n", s.StreakCount, s.Energy)
}
