package palette

import (
	"context"
	"errors"
	"io"
	"slices"
	"strings"
	"testing"

	"github.com/1broseidon/tilewm/internal/wm"
)

type fakeRun struct {
	replies []string
	args    [][]string
	stdin   []string
}

func (f *fakeRun) run(_ context.Context, _ string, args []string, stdin io.Reader) ([]byte, error) {
	in, _ := io.ReadAll(stdin)
	f.args = append(f.args, args)
	f.stdin = append(f.stdin, string(in))
	if len(f.replies) == 0 {
		return nil, ErrCancelled
	}
	out := f.replies[0]
	f.replies = f.replies[1:]
	return []byte(out + "\n"), nil
}

func fakeLauncher(kind launcherKind, replies ...string) (*launcher, *fakeRun) {
	f := &fakeRun{replies: replies}
	l := newLauncher(kind, false)
	l.run = f.run
	return l, f
}

var sample = []Item{
	{Label: "1: main", IsHeader: true},
	{Label: "editor", Action: Action{Kind: ActionSelectWindow, Window: 7}, IsActive: true, Icon: "emacs"},
	{Label: "terminal", Action: Action{Kind: ActionSelectWindow, Window: 9}},
}

func TestRofiRowsAndArgs(t *testing.T) {
	l, f := fakeLauncher(kindRofi, "2")
	got, err := l.Show(context.Background(), "windows", sample)
	if err != nil {
		t.Fatalf("Show: %v", err)
	}
	if got.Action.Window != 9 {
		t.Fatalf("picked %+v, want window 9", got)
	}

	rows := strings.Split(f.stdin[0], "\n")
	if len(rows) != 3 {
		t.Fatalf("rows = %q", rows)
	}
	if rows[0] != "<b>1: main</b>\x00nonselectable\x1ftrue" {
		t.Errorf("header row = %q", rows[0])
	}
	if strings.Count(rows[1], "\x00") != 1 || !strings.Contains(rows[1], "icon\x1femacs") {
		t.Errorf("window row = %q", rows[1])
	}

	args := f.args[0]
	for _, want := range [][]string{{"-format", "i"}, {"-a", "1"}, {"-selected-row", "1"}, {"-p", "windows"}} {
		i := slices.Index(args, want[0])
		if i < 0 || i+1 >= len(args) || args[i+1] != want[1] {
			t.Errorf("args %v missing %v", args, want)
		}
	}
}

func TestRofiEscapesMarkup(t *testing.T) {
	l, f := fakeLauncher(kindRofi, "0")
	if _, err := l.Show(context.Background(), "", []Item{{Label: "a <b> & c", Action: Action{Kind: ActionNewWorkspace}}}); err != nil {
		t.Fatalf("Show: %v", err)
	}
	if !strings.HasPrefix(f.stdin[0], "a &lt;b&gt; &amp; c") {
		t.Fatalf("row = %q", f.stdin[0])
	}
}

func TestDmenuMatchesByLabelAndDisambiguates(t *testing.T) {
	items := []Item{
		{Label: "xterm", Action: Action{Kind: ActionSelectWindow, Window: 1}},
		{Label: "xterm", Action: Action{Kind: ActionSelectWindow, Window: 2}},
	}
	l, f := fakeLauncher(kindDmenu, "xterm (2)")
	got, err := l.Show(context.Background(), "", items)
	if err != nil {
		t.Fatalf("Show: %v", err)
	}
	if got.Action.Window != 2 {
		t.Fatalf("picked %+v, want window 2", got)
	}
	if f.stdin[0] != "xterm\nxterm (2)" {
		t.Fatalf("stdin = %q", f.stdin[0])
	}
}

func TestHeaderPickShowsAgain(t *testing.T) {
	l, f := fakeLauncher(kindFuzzel, "0", "1")
	got, err := l.Show(context.Background(), "", sample)
	if err != nil {
		t.Fatalf("Show: %v", err)
	}
	if got.Action.Window != 7 || len(f.args) != 2 {
		t.Fatalf("picked %+v after %d runs", got, len(f.args))
	}
}

func TestCancelAndBadSelection(t *testing.T) {
	l, _ := fakeLauncher(kindRofi)
	if _, err := l.Show(context.Background(), "", sample); !errors.Is(err, ErrCancelled) {
		t.Fatalf("err = %v, want ErrCancelled", err)
	}
	l, _ = fakeLauncher(kindRofi, "12")
	if _, err := l.Show(context.Background(), "", sample); err == nil {
		t.Fatalf("out of range index accepted")
	}
	if _, err := l.Show(context.Background(), "", nil); err == nil {
		t.Fatalf("empty menu accepted")
	}
}

func TestNewBackendRejectsUnknown(t *testing.T) {
	if _, err := NewBackend("xmenu", false); err == nil {
		t.Fatalf("unknown backend accepted")
	}
}

func TestWindowList(t *testing.T) {
	workspaces := []wm.WorkspaceInfo{
		{Index: 0, Name: "main"},
		{Index: 1, Name: "web", Current: true},
		{Index: 2, Name: "empty"},
	}
	windows := []wm.WindowInfo{
		{Client: 7, Title: "editor", App: "emacs", Workspace: 0, Shaded: true},
		{Client: 9, Title: "browser", App: "firefox", Workspace: 1, Focused: true},
		{Client: 11, App: "clock", Workspace: 0, Omnipresent: true},
	}
	items := WindowList(windows, workspaces)

	var labels []string
	for _, it := range items {
		labels = append(labels, it.Label)
	}
	want := []string{"1: main", "editor [shaded]", "2: web", "browser", "0xb"}
	if !slices.Equal(labels, want) {
		t.Fatalf("labels = %q, want %q", labels, want)
	}
	if !items[0].IsHeader || items[1].Action != (Action{Kind: ActionSelectWindow, Window: 7}) {
		t.Fatalf("items = %+v", items)
	}
	if !items[3].IsActive {
		t.Fatalf("focused window not highlighted")
	}
}

func TestWorkspaceMenuAndHiddenApps(t *testing.T) {
	items := WorkspaceMenu([]wm.WorkspaceInfo{{Index: 0, Name: "main", Current: true, Windows: 2}})
	if len(items) != 2 || items[0].Label != "1: main  (2)" || !items[0].IsActive {
		t.Fatalf("workspace menu = %+v", items)
	}
	if items[1].Action.Kind != ActionNewWorkspace {
		t.Fatalf("last row = %+v", items[1])
	}

	apps := HiddenApps([]wm.WindowInfo{
		{App: "xterm", Hidden: true},
		{App: "xterm", Hidden: true},
		{App: "emacs", Hidden: true},
		{App: "emacs"},
		{App: ""},
	})
	if len(apps) != 1 || apps[0].Action != (Action{Kind: ActionUnhideApp, App: "xterm"}) {
		t.Fatalf("hidden apps = %+v", apps)
	}
}
