package app

import (
	"fmt"
	"io"
	"sync"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/schollz/progressbar/v3"

	"github.com/dmitrijs2005/assetvault/internal/client/upload"
)

// progressView renders the whole batch as one bar of per-file percentages.
type progressView struct {
	mu      sync.Mutex
	bar     *progressbar.ProgressBar
	percent map[string]int
}

func newProgressView(w io.Writer, jobs []upload.Job) *progressView {
	bar := progressbar.NewOptions(100*len(jobs),
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(fmt.Sprintf("uploading %d file(s)", len(jobs))),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionClearOnFinish(),
	)
	return &progressView{bar: bar, percent: make(map[string]int, len(jobs))}
}

func (v *progressView) listen(ev upload.Event) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.percent[ev.ID] = ev.Progress.Progress
	if ev.Status == upload.StatusError {
		// A failed file no longer moves; count it as settled.
		v.percent[ev.ID] = 100
	}
	sum := 0
	for _, p := range v.percent {
		sum += p
	}
	_ = v.bar.Set(sum)
}

func (v *progressView) finish() {
	v.mu.Lock()
	defer v.mu.Unlock()
	_ = v.bar.Finish()
}

func (a *App) render(results []FileResult) {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"File", "Size", "Status", "Key / Error"})

	for _, r := range results {
		detail := r.Key
		if r.Err != nil {
			detail = upload.Describe(r.Err)
		}
		tw.AppendRow(table.Row{r.Path, r.Size, string(r.Status), detail})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	fmt.Fprintln(a.out, tw.Render())
}
