package main

import (
	"flag"
	"fmt"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"vipers/internal/config"
	"vipers/internal/period"
	"vipers/internal/task"
)

type floatList []float64

func (l *floatList) String() string {
	parts := make([]string, len(*l))
	for i, v := range *l {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strings.Join(parts, ",")
}

func (l *floatList) Set(value string) error {
	*l = (*l)[:0]
	for _, part := range strings.Split(value, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return err
		}
		*l = append(*l, v)
	}
	return nil
}

type paramSet struct {
	seed     int64
	interval float64
	growth   float64
}

func (p paramSet) String() string {
	return fmt.Sprintf("seed=%d interval=%.0f growth=%.3f", p.seed, p.interval, p.growth)
}

type scenarioResult struct {
	params paramSet
	stats  period.SpawnTelemetry
	err    error
}

func main() {
	ticks := flag.Int("ticks", 36000, "ticks to simulate per scenario")
	workers := flag.Int("workers", runtime.NumCPU(), "number of worker goroutines")
	seeds := flag.Int("seeds", 4, "seeds per parameter set")
	completeAfter := flag.Int("complete-after", 1800, "ticks before a task is completed (-1 never)")
	difficulty := flag.Int("difficulty", 0, "era: 0 medieval, 1 modern, 2 future")
	assetsPath := flag.String("assets", "", "YAML asset file overriding the built-in themes")
	intervals := floatList{60, 300, 600}
	growths := floatList{0, 0.05, -0.05}
	flag.Var(&intervals, "intervals", "comma-separated initial spawn intervals")
	flag.Var(&growths, "growths", "comma-separated spawn interval growth values")
	flag.Parse()

	assets, err := config.LoadAssets(*assetsPath)
	if err != nil {
		fmt.Println(err)
		return
	}
	flags := config.NewFlags()
	flags.Difficulty = *difficulty
	sc, err := assets.Session(flags, nil)
	if err != nil {
		fmt.Println(err)
		return
	}
	if *difficulty < 0 || *difficulty >= len(period.Eras) {
		fmt.Printf("difficulty %d out of range\n", *difficulty)
		return
	}
	base := sc.Periods[period.Eras[*difficulty]]

	var sets []paramSet
	for _, interval := range intervals {
		for _, growth := range growths {
			for s := 0; s < *seeds; s++ {
				sets = append(sets, paramSet{seed: int64(1337 + s), interval: interval, growth: growth})
			}
		}
	}

	fmt.Printf("Sweeping %d scenarios (%d workers, %d ticks, era %s)\n", len(sets), *workers, *ticks, base.Era)

	jobs := make(chan paramSet)
	results := make(chan scenarioResult)
	var wg sync.WaitGroup

	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for params := range jobs {
				cfg := base
				cfg.SpawnInterval = params.interval
				cfg.SpawnIntervalGrowth = params.growth
				stats, err := period.SpawnScenario(cfg, sc.World, params.seed, *ticks, *completeAfter)
				results <- scenarioResult{params: params, stats: stats, err: err}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		for _, params := range sets {
			jobs <- params
		}
		close(jobs)
	}()

	start := time.Now()
	var all []scenarioResult
	for res := range results {
		if res.err != nil {
			fmt.Printf("%s failed: %v\n", res.params, res.err)
			continue
		}
		if res.stats.FirstFullTick > 0 {
			fmt.Printf("World saturated at tick %d with %s\n", res.stats.FirstFullTick, res.params)
		}
		all = append(all, res)
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].stats.PeakActive != all[j].stats.PeakActive {
			return all[i].stats.PeakActive > all[j].stats.PeakActive
		}
		return all[i].stats.Spawned > all[j].stats.Spawned
	})
	elapsed := time.Since(start)

	fmt.Printf("\nResults by peak active tasks (elapsed %s):\n", elapsed.Round(time.Millisecond))
	for i, res := range all {
		st := res.stats
		fmt.Printf("%2d) peak=%d spawned=%d completed=%d skipped=%d finalInterval=%.1f maze=%d rps=%d ttt=%d params=%s\n",
			i+1, st.PeakActive, st.Spawned, st.Completed, st.Skipped, st.FinalInterval,
			st.Kinds[task.KindMaze], st.Kinds[task.KindRockPaperScissors], st.Kinds[task.KindTicTacToe], res.params)
	}
}
