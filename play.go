package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"io73k/names"
	"io73k/offense"
	"io73k/profile"
	"io73k/session"
	"io73k/storage"
	"io73k/story"
	"io73k/transcript"
	"io73k/unlock"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	playTrial    string
	playName     string
	playRealtime bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in the terminal",
	Long: `Plays the trials in the terminal. Narration is printed as plain text;
with --realtime it is paced the way the browser paces it. End with Ctrl-D.`,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&playTrial, "trial", "", "start at this trial (prelude, convent, hangman, white_room)")
	playCmd.Flags().StringVar(&playName, "name", "", "player name; asked for when empty")
	playCmd.Flags().BoolVar(&playRealtime, "realtime", false, "honor narration delays")
}

func runPlay(cmd *cobra.Command, args []string) error {
	first := story.Scene(playTrial)
	if first != "" && !session.Known(first) {
		return fmt.Errorf("unknown trial %q", playTrial)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	t := &terminal{out: cmd.OutOrStdout(), realtime: playRealtime, sleep: time.Sleep}
	return t.play(ctx, a.manager, cmd.InOrStdin(), playName, first)
}

// terminal plays a session over plain text streams.
type terminal struct {
	out      io.Writer
	realtime bool
	sleep    func(time.Duration)
}

func (t *terminal) show(seq story.Sequence) {
	at := 0
	for _, d := range seq {
		if t.realtime && d.DelayMs > at {
			t.sleep(time.Duration(d.DelayMs-at) * time.Millisecond)
		}
		at = d.DelayMs
		if d.Content != "" {
			fmt.Fprintln(t.out, transcript.PlainText(d.Content))
		}
		if d.ShowButton {
			fmt.Fprintln(t.out, "(type continue)")
		}
	}
}

func (t *terminal) play(ctx context.Context, m *session.Manager, in io.Reader, name string, first story.Scene) error {
	sc := bufio.NewScanner(in)

	if name == "" {
		fmt.Fprint(t.out, "What is your name? ")
		if !sc.Scan() {
			return sc.Err()
		}
		name = strings.TrimSpace(sc.Text())
	}
	if !names.Validate(name) {
		fmt.Fprintf(t.out, "That's not your name. You'll be %s.\n", names.Default)
		name = names.Default
	}

	s, intro := m.Start(name, first)
	defer m.End(s.ID)
	t.show(intro)

	for {
		fmt.Fprint(t.out, "> ")
		if !sc.Scan() {
			fmt.Fprintln(t.out)
			return sc.Err()
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		reply, err := s.Submit(ctx, line)
		if err != nil {
			return err
		}
		t.show(reply.Messages)
		if reply.Finished {
			return nil
		}
	}
}

// printStatus reports the stored profile without loading it, which would
// count as a new playthrough.
func printStatus(w io.Writer, a *app, now time.Time) {
	var p profile.Profile
	ok, err := storage.GetJSON(a.kv, profile.Key, &p)
	switch {
	case err != nil:
		fmt.Fprintf(w, "Profile: unreadable (%v)\n", err)
	case !ok:
		fmt.Fprintln(w, "Profile: none yet")
	default:
		fmt.Fprintf(w, "Profile: corruption %d (%s), playthrough %d, last seen %s\n",
			p.CorruptionScore, profile.TierOf(&p), p.PlayCount,
			humanize.RelTime(time.UnixMilli(p.LastUpdated), now, "ago", "from now"))
		fmt.Fprintf(w, "Actions: %d violent, %d not, %d hesitations, average reply %s\n",
			p.TotalViolentActions, p.TotalNonViolentAttempts, len(p.Hesitations),
			time.Duration(p.AverageResponseTime*float64(time.Millisecond)).Round(100*time.Millisecond))
	}

	if st := a.lockouts.Check(); st.Locked {
		fmt.Fprintf(w, "Lockout: %s left\n", offense.Wait(st.Remaining))
	} else {
		fmt.Fprintln(w, "Lockout: none")
	}
	fmt.Fprintf(w, "Lockouts served: %d\n", a.tally.Count())

	ach := a.achievements.Stats(len(unlock.Achievements()))
	cdx := a.codex.Stats(len(unlock.CodexEntries()))
	fmt.Fprintf(w, "Achievements: %d/%d (%d%%)\n", ach.Unlocked, ach.Total, ach.Percentage)
	fmt.Fprintf(w, "Codex: %d/%d (%d%%)\n", cdx.Unlocked, cdx.Total, cdx.Percentage)
}
