package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"git.lost.host/meutraa/eart/internal/config"
	"git.lost.host/meutraa/eart/internal/exercise"
	"git.lost.host/meutraa/eart/internal/game"
	"git.lost.host/meutraa/eart/internal/history"
	"git.lost.host/meutraa/eart/internal/render"
	"git.lost.host/meutraa/eart/internal/score"
	"git.lost.host/meutraa/eart/internal/theme"
	"git.lost.host/meutraa/eart/internal/timing"
)

// Program draws the state of a Session while its attempts run
type Program struct {
	Session  *exercise.Session
	History  *history.Store
	Theme    theme.Theme
	Renderer render.Renderer
	Logger   *slog.Logger

	mu      sync.Mutex
	level   game.Definition
	attempt int
	repeat  int
	best    int
	hasBest bool
	beat    timing.BarBeat
	counts  []int
	last    *score.Hit
	summary string
	// Best score per level name over this run
	Bests map[string]int

	sideCol uint16
}

func (p *Program) OnHit(hit score.Hit) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.last = &hit
	if nil == hit.Judgement {
		return
	}
	idx, _ := game.Judge(config.Judgements, hit.Distance)
	if idx >= 0 {
		p.counts[idx]++
	}
}

func (p *Program) OnBeat(b timing.BarBeat) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.beat = b
}

func (p *Program) reset(def game.Definition, attempt, repeat int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.level = def
	p.attempt = attempt
	p.repeat = repeat
	p.counts = make([]int, len(config.Judgements))
	p.last = nil
	p.beat = timing.BarBeat{}
}

// Run plays every level repeat times, stopping early when ctx ends
func (p *Program) Run(ctx context.Context, defs []game.Definition, repeat int, listenFirst bool) error {
	columns, _ := p.Renderer.Size()
	sideCol := columns/2 - 20
	if sideCol < 2 {
		sideCol = 2
	}
	p.sideCol = uint16(sideCol)
	if nil == p.Bests {
		p.Bests = map[string]int{}
	}

	for _, def := range defs {
		ex, err := p.Session.Prepare(def)
		if nil != err {
			return err
		}
		melody, _ := ex.Melody()
		sum := history.Sum(ex.Definition.Tempo, melody)

		for attempt := 1; attempt <= repeat; attempt++ {
			if err := ctx.Err(); nil != err {
				return nil
			}
			p.reset(ex.Definition, attempt, repeat)
			if err := p.updateBest(sum); nil != err {
				return err
			}

			res, completed, err := p.attempt(ctx, listenFirst)
			if nil != err {
				return err
			}
			if !completed {
				p.Logger.Info("attempt stopped", "level", def.Name, "attempt", attempt)
				return nil
			}
			if _, err := p.History.Save(sum, res); nil != err {
				return err
			}
			p.Logger.Info("attempt complete", "level", def.Name, "attempt", attempt, "score", res.Score,
				"hits", res.Stats.Hits, "misses", res.Stats.Misses, "mean", res.Stats.MeanOffset, "stddev", res.Stats.StdDev)
			p.setSummary(res)
			if best, ok := p.Bests[def.Name]; !ok || res.Score > best {
				p.Bests[def.Name] = res.Score
			}
		}
	}
	return nil
}

func (p *Program) updateBest(sum string) error {
	best, ok, err := p.History.Best(sum)
	if nil != err {
		return err
	}
	p.mu.Lock()
	p.best, p.hasBest = best, ok
	p.mu.Unlock()
	return nil
}

func (p *Program) setSummary(res score.Result) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.summary = fmt.Sprintf("Last: %d points, %d/%d notes, mean %v, stdev %v",
		res.Score, res.Stats.Hits, res.Stats.Hits+res.Stats.Misses,
		res.Stats.MeanOffset.Round(time.Millisecond), res.Stats.StdDev.Round(time.Millisecond))
}

// attempt runs one attempt while the render loop draws it
func (p *Program) attempt(ctx context.Context, listenFirst bool) (score.Result, bool, error) {
	renderCtx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		p.Renderer.Clear()
		p.Renderer.RenderLoop(renderCtx, *config.FramePeriod, func(time.Duration) bool {
			p.Render()
			return true
		})
	}()

	res, completed, err := p.Session.Start(ctx, listenFirst)
	cancel()
	wg.Wait()
	p.Render()
	return res, completed, err
}

// Render fills one frame, every line is cleared to its end
func (p *Program) Render() {
	p.mu.Lock()
	defer p.mu.Unlock()

	scorer := p.Session.Scorer()
	if nil == scorer {
		return
	}
	col := p.sideCol
	line := func(row uint16, s string) {
		p.Renderer.Fill(row, col, s+"\033[K")
	}

	line(2, p.Theme.RenderTitle(fmt.Sprintf("%s  (%d/%d)", p.level.Name, p.attempt, p.repeat)))
	line(3, fmt.Sprintf("%v bpm  %d/%d", p.level.Tempo, p.level.Signature.Upper, p.level.Signature.Lower))
	line(5, p.Theme.RenderPhase(scorer.Phase()))
	line(6, fmt.Sprintf("bar %3d  %s", p.beat.Bar, p.Theme.RenderBeat(p.beat.Beat, p.level.Signature.Upper)))

	best := "-"
	if p.hasBest {
		best = fmt.Sprint(p.best)
	}
	line(8, fmt.Sprintf("Score: %6d   Best: %6s", scorer.Score(), best))
	for i := range config.Judgements {
		line(uint16(10+i), fmt.Sprintf("%s: %4d", p.Theme.RenderJudgement(&config.Judgements[i]), p.counts[i]))
	}

	row := uint16(11 + len(config.Judgements))
	if p.level.Melody.ShowNotes {
		if ex := p.Session.Exercise(); nil != ex {
			notes := make([]string, 0, len(ex.Targets))
			for _, t := range ex.Targets {
				notes = append(notes, p.Theme.RenderNote(t.Pitch, false))
			}
			line(row, strings.Join(notes, " "))
		}
	}
	if nil != p.last {
		played := p.Theme.RenderNote(p.last.Input.Pitch, nil != p.last.Target)
		line(row+1, fmt.Sprintf("%s  %s", played, p.Theme.RenderJudgement(p.last.Judgement)))
	}
	line(row+3, p.summary)
}
