package logging

import (
	"log/slog"
	"sync"

	"github.com/schollz/progressbar/v3"
)

// ProgressBarOptions configures NewProgressBar.
type ProgressBarOptions struct {
	// Description prefixes every rendered line.
	Description string
	// Level is the severity of the emitted lines; the zero value is INFO.
	Level slog.Level
	// BucketPercent is the minimum percentage step between log lines.
	BucketPercent float64
}

// ProgressBar renders a text progress bar into the log instead of a terminal.
// Every redraw lands in a ProgressWriter; a line is flushed to the logger only
// when the sampler sees a new percentage bucket or a new description.
type ProgressBar struct {
	mu      sync.Mutex
	bar     *progressbar.ProgressBar
	writer  *ProgressWriter
	sampler *ProgressSampler
	total   int64
	current int64
	label   string
}

// NewProgressBar returns a bar counting to total. A total <= 0 renders a
// spinner and reports only description changes.
func NewProgressBar(logger *slog.Logger, total int64, opts ProgressBarOptions) *ProgressBar {
	writer := NewProgressWriter(logger, opts.Level)
	limit := total
	if limit <= 0 {
		limit = -1
	}
	bar := progressbar.NewOptions64(limit,
		progressbar.OptionSetWriter(writer),
		progressbar.OptionSetDescription(opts.Description),
		progressbar.OptionSetWidth(20),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionUseANSICodes(false),
		progressbar.OptionEnableColorCodes(false),
	)
	return &ProgressBar{
		bar:     bar,
		writer:  writer,
		sampler: NewProgressSampler(opts.BucketPercent),
		total:   total,
		label:   opts.Description,
	}
}

// Add advances the bar by n and logs the redraw when it is worth a line.
func (p *ProgressBar) Add(n int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.bar.Add64(n); err != nil {
		return err
	}
	p.current += n
	if p.sampler.ShouldLog(p.percent(), p.label) {
		return p.writer.Flush()
	}
	return nil
}

// Describe changes the description shown before the bar.
func (p *ProgressBar) Describe(description string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.label = description
	p.bar.Describe(description)
}

// Finish fills the bar and always logs the final line.
func (p *ProgressBar) Finish() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.bar.Finish(); err != nil {
		return err
	}
	if p.total > 0 {
		p.current = p.total
	}
	return p.writer.Flush()
}

// Writer exposes the underlying ProgressWriter.
func (p *ProgressBar) Writer() *ProgressWriter {
	return p.writer
}

func (p *ProgressBar) percent() float64 {
	if p.total <= 0 {
		return -1
	}
	return float64(p.current) * 100 / float64(p.total)
}
