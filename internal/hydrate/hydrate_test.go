package hydrate

import (
	"context"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iksnae/itingen/internal"
	"github.com/iksnae/itingen/internal/imaging"
	"github.com/iksnae/itingen/internal/metrics"
	"github.com/iksnae/itingen/testutil"
)

// countingImages wraps an image generator and records its calls.
type countingImages struct {
	mu    sync.Mutex
	next  ImageGenerator
	err   error
	data  []byte
	calls []ImageRequest
}

func (c *countingImages) GenerateImage(ctx context.Context, req ImageRequest) ([]byte, error) {
	c.mu.Lock()
	c.calls = append(c.calls, req)
	c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	if c.data != nil {
		return c.data, nil
	}
	return c.next.GenerateImage(ctx, req)
}

func (c *countingImages) count(task string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, r := range c.calls {
		if task == "" || r.Task == task {
			n++
		}
	}
	return n
}

type countingText struct {
	calls int
	err   error
	reply string
}

func (c *countingText) GenerateText(ctx context.Context, req TextRequest) (string, error) {
	c.calls++
	if c.err != nil {
		return "", c.err
	}
	if c.reply != "" {
		return c.reply, nil
	}
	return OfflineGenerator{}.GenerateText(ctx, req)
}

func borderedPNG(t *testing.T) []byte {
	return testutil.EncodePNG(t, testutil.BorderedImage(120, 80, 6, color.NRGBA{R: 30, G: 90, B: 160, A: 255}))
}

func TestCachedImage_GeneratesOncePerPayload(t *testing.T) {
	root := t.TempDir()
	gen := &countingImages{data: borderedPNG(t)}
	payload := internal.Payload{"task": "thumbnail", "heading": "X"}
	req := ImageRequest{Task: "thumbnail", Prompt: "X", Aspect: imaging.AspectSquare}

	first := &CachedImage{Cache: internal.NewAssetCache(root), Generator: gen, Options: imaging.DefaultOptions()}
	p1, err := first.GetPayload(context.Background(), payload, req)
	require.NoError(t, err)

	// A fresh cache instance on the same root sees the stored blob.
	second := &CachedImage{Cache: internal.NewAssetCache(root), Generator: gen, Options: imaging.DefaultOptions()}
	p2, err := second.GetPayload(context.Background(), payload, req)
	require.NoError(t, err)

	assert.Equal(t, 1, gen.count(""))
	assert.Equal(t, p1, p2)
	assert.FileExists(t, p1)
	assert.FileExists(t, strings.TrimSuffix(p1, filepath.Ext(p1))+".json")
}

func TestCachedImage_PostprocessesBeforeStoring(t *testing.T) {
	gen := &countingImages{data: borderedPNG(t)}
	ci := &CachedImage{Cache: internal.NewAssetCache(t.TempDir()), Generator: gen, Options: imaging.DefaultOptions()}

	path, err := ci.Get(context.Background(), ImageRequest{Task: TaskThumbnail, Prompt: "square", Aspect: imaging.AspectSquare})
	require.NoError(t, err)

	img, _, err := imaging.DecodeFile(path)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds().Dx(), img.Bounds().Dy())
	assert.Equal(t, ".png", filepath.Ext(path))
}

func TestCachedImage_Force(t *testing.T) {
	cache := internal.NewAssetCache(t.TempDir())
	gen := &countingImages{data: borderedPNG(t)}
	req := ImageRequest{Task: TaskBanner, Prompt: "p", Aspect: imaging.AspectBanner}

	ci := &CachedImage{Cache: cache, Generator: gen, Options: imaging.DefaultOptions()}
	_, err := ci.Get(context.Background(), req)
	require.NoError(t, err)

	ci.Force = true
	_, err = ci.Get(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 2, gen.count(TaskBanner))
}

func TestCachedImage_Errors(t *testing.T) {
	t.Run("generator failure", func(t *testing.T) {
		cache := internal.NewAssetCache(t.TempDir())
		gen := &countingImages{err: errors.New("quota exceeded")}
		rec := metrics.New()
		ci := &CachedImage{Cache: cache, Generator: gen, Metrics: rec}

		_, err := ci.Get(context.Background(), ImageRequest{Task: TaskThumbnail, Prompt: "p"})
		var genErr *internal.GenerationError
		require.ErrorAs(t, err, &genErr)
		assert.Equal(t, TaskThumbnail, genErr.Task)
		assert.Len(t, genErr.Fingerprint, 64)
		assert.ErrorContains(t, err, "quota exceeded")

		stats, err := cache.Stats()
		require.NoError(t, err)
		assert.Zero(t, stats.ImageCount)

		out := filepath.Join(t.TempDir(), "run.prom")
		require.NoError(t, rec.WriteTextfile(out))
		text, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.Contains(t, string(text), `itingen_generation_errors_total{task="event_thumbnail"} 1`)
	})

	t.Run("undecodable bytes", func(t *testing.T) {
		gen := &countingImages{data: []byte("not an image")}
		ci := &CachedImage{Cache: internal.NewAssetCache(t.TempDir()), Generator: gen}

		_, err := ci.Get(context.Background(), ImageRequest{Task: TaskThumbnail, Prompt: "p"})
		var decodeErr *imaging.DecodeError
		assert.ErrorAs(t, err, &decodeErr)
	})
}

func TestCachedText(t *testing.T) {
	cache := internal.NewAssetCache(t.TempDir())
	gen := &countingText{reply: "  \"A quiet harbor morning.\"\n"}
	ct := &CachedText{Cache: cache, Generator: gen}
	req := TextRequest{Task: TaskNarrative, Model: "m", Prompt: "p"}

	text, err := ct.Get(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "A quiet harbor morning.", text)

	again, err := (&CachedText{Cache: internal.NewAssetCache(cache.Root()), Generator: gen}).Get(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, text, again)
	assert.Equal(t, 1, gen.calls)

	// A different model is a different asset.
	_, err = ct.Get(context.Background(), TextRequest{Task: TaskNarrative, Model: "other", Prompt: "p"})
	require.NoError(t, err)
	assert.Equal(t, 2, gen.calls)
}

func TestHydrator_FullRun(t *testing.T) {
	root := t.TempDir()
	images := &countingImages{next: OfflineGenerator{}}
	text := &countingText{}
	cfg := Config{Model: "offline", Banners: true, Thumbnails: true, Narratives: true}
	days := internal.Aggregate(internal.CreateTestItinerary())

	h := NewHydrator(internal.NewAssetCache(root), images, text, cfg)
	hydrated, err := h.Hydrate(context.Background(), days)
	require.NoError(t, err)
	require.Len(t, hydrated, 3)

	assert.Equal(t, 2, images.count(TaskBanner), "dated days only")
	assert.Equal(t, 4, images.count(TaskThumbnail), "events with a place")
	assert.Equal(t, 5, text.calls)

	assert.NotEmpty(t, hydrated[0].BannerImagePath)
	assert.NotEmpty(t, hydrated[1].BannerImagePath)
	assert.Empty(t, hydrated[2].BannerImagePath)
	assert.FileExists(t, hydrated[0].BannerImagePath)

	arrive := hydrated[0].Events[0]
	assert.NotEmpty(t, arrive.ImagePath)
	assert.Equal(t, "Arrive SFO, set against San Francisco International Airport.", arrive.Narrative)
	assert.Empty(t, hydrated[2].Events[0].ImagePath)

	// The input timeline is left alone.
	assert.Empty(t, days[0].BannerImagePath)
	assert.Empty(t, days[0].Events[0].ImagePath)

	// A second run over the same inputs is served entirely from the cache.
	again, err := NewHydrator(internal.NewAssetCache(root), images, text, cfg).Hydrate(context.Background(), days)
	require.NoError(t, err)
	assert.Equal(t, 6, images.count(""))
	assert.Equal(t, 5, text.calls)
	assert.Equal(t, hydrated, again)
}

func TestHydrator_ChangedEventRegeneratesOnlyItsAssets(t *testing.T) {
	root := t.TempDir()
	images := &countingImages{next: OfflineGenerator{}}
	cfg := Config{Banners: true, Thumbnails: true}

	events := internal.CreateTestItinerary()
	_, err := NewHydrator(internal.NewAssetCache(root), images, nil, cfg).Hydrate(context.Background(), internal.Aggregate(events))
	require.NoError(t, err)
	require.Equal(t, 6, images.count(""))

	events[3].Location = "Carmel Mission"
	_, err = NewHydrator(internal.NewAssetCache(root), images, nil, cfg).Hydrate(context.Background(), internal.Aggregate(events))
	require.NoError(t, err)

	// Dinner's thumbnail and the second day's banner.
	assert.Equal(t, 5, images.count(TaskThumbnail))
	assert.Equal(t, 3, images.count(TaskBanner))
}

func TestHydrator_Weather(t *testing.T) {
	table, err := ParseClimateTable([]byte(`
places:
  - name: San Francisco
    match: [san francisco, sfo]
    months:
      1: {high_f: 58, low_f: 46, conditions: Cool and foggy}
  - name: Carmel
    months:
      1: {high_f: 61, low_f: 43, conditions: Mild with coastal breeze}
`))
	require.NoError(t, err)

	cache := internal.NewAssetCache(t.TempDir())
	h := NewHydrator(cache, nil, nil, Config{}, WithWeather(table))
	days, err := h.Hydrate(context.Background(), internal.Aggregate(internal.CreateTestItinerary()))
	require.NoError(t, err)

	// The first event with a reading sets the day.
	require.NotNil(t, days[0].WeatherHigh)
	assert.Equal(t, 58.0, *days[0].WeatherHigh)
	assert.Equal(t, "Cool and foggy", days[0].WeatherConditions)

	// Existing readings are kept.
	assert.Equal(t, 68.0, *days[0].Events[1].WeatherHigh)

	require.NotNil(t, days[1].WeatherLow)
	assert.Equal(t, 43.0, *days[1].WeatherLow)
	assert.False(t, days[2].HasWeather())

	stats, err := cache.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TextCount)
}

func TestHydrator_WeatherFollowsEditedTable(t *testing.T) {
	tableWith := func(high string) *ClimateTable {
		table, err := ParseClimateTable([]byte(`
places:
  - name: San Francisco
    match: [san francisco, sfo]
    months:
      1: {high_f: ` + high + `, low_f: 46}
`))
		require.NoError(t, err)
		return table
	}
	cache := internal.NewAssetCache(t.TempDir())
	days := internal.Aggregate(internal.CreateTestItinerary())

	first, err := NewHydrator(cache, nil, nil, Config{}, WithWeather(tableWith("58"))).Hydrate(context.Background(), days)
	require.NoError(t, err)
	require.NotNil(t, first[0].WeatherHigh)
	assert.Equal(t, 58.0, *first[0].WeatherHigh)

	again, err := NewHydrator(cache, nil, nil, Config{}, WithWeather(tableWith("58"))).Hydrate(context.Background(), days)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	edited, err := NewHydrator(cache, nil, nil, Config{}, WithWeather(tableWith("75"))).Hydrate(context.Background(), days)
	require.NoError(t, err)
	require.NotNil(t, edited[0].WeatherHigh)
	assert.Equal(t, 75.0, *edited[0].WeatherHigh)
}

func TestClimateTable_Revision(t *testing.T) {
	a, err := ParseClimateTable([]byte("places:\n  - name: Nelson\n    months:\n      2: {high_f: 72}\n"))
	require.NoError(t, err)
	b, err := ParseClimateTable([]byte("places:\n  - name: Nelson\n    months:\n      2: {high_f: 73}\n"))
	require.NoError(t, err)

	assert.Len(t, a.Revision(), 64)
	assert.Equal(t, a.Revision(), a.Revision())
	assert.NotEqual(t, a.Revision(), b.Revision())
}

func TestClimateTable(t *testing.T) {
	jan := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	table, err := ParseClimateTable([]byte(`
places:
  - name: Queenstown
    match: [queenstown, zqn]
    months:
      1: {high_f: 72, low_f: 50}
`))
	require.NoError(t, err)

	w, err := table.Typical(context.Background(), "ZQN Airport", jan)
	require.NoError(t, err)
	require.NotNil(t, w.HighF)
	assert.Equal(t, 72.0, *w.HighF)

	w, err = table.Typical(context.Background(), "Queenstown", jan.AddDate(0, 5, 0))
	require.NoError(t, err)
	assert.Nil(t, w.HighF)

	w, err = table.Typical(context.Background(), "Wellington", jan)
	require.NoError(t, err)
	assert.Nil(t, w.HighF)

	_, err = ParseClimateTable([]byte("places:\n  - name: X\n    months:\n      13: {high_f: 1}\n"))
	var parseErr *internal.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestHydrator_BestEffort(t *testing.T) {
	days := internal.Aggregate(internal.CreateTestItinerary())
	failing := &countingImages{err: errors.New("service unavailable")}

	_, err := NewHydrator(internal.NewAssetCache(t.TempDir()), failing, nil, Config{Thumbnails: true}).
		Hydrate(context.Background(), days)
	var genErr *internal.GenerationError
	require.ErrorAs(t, err, &genErr)

	hydrated, err := NewHydrator(internal.NewAssetCache(t.TempDir()), failing, nil, Config{Thumbnails: true, Banners: true, BestEffort: true}).
		Hydrate(context.Background(), days)
	require.NoError(t, err)
	for _, d := range hydrated {
		assert.Empty(t, d.BannerImagePath)
		for _, e := range d.Events {
			assert.Empty(t, e.ImagePath)
		}
	}
}

func TestHydrator_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	images := &countingImages{next: OfflineGenerator{}}

	_, err := NewHydrator(internal.NewAssetCache(t.TempDir()), images, nil, Config{Banners: true, BestEffort: true}).
		Hydrate(ctx, internal.Aggregate(internal.CreateTestItinerary()))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, images.count(""))
}

func TestOfflineGenerator(t *testing.T) {
	ctx := context.Background()
	gen := OfflineGenerator{}
	req := ImageRequest{Task: TaskBanner, Prompt: "harbor", Aspect: imaging.AspectBanner}

	a, err := gen.GenerateImage(ctx, req)
	require.NoError(t, err)
	b, err := gen.GenerateImage(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	img := testutil.DecodeImage(t, a)
	assert.Equal(t, 640, img.Bounds().Dx())
	assert.Equal(t, 360, img.Bounds().Dy())

	other, err := gen.GenerateImage(ctx, ImageRequest{Task: TaskBanner, Prompt: "mountains", Aspect: imaging.AspectBanner})
	require.NoError(t, err)
	assert.NotEqual(t, a, other)

	// The white frame is there for the post-processor to remove.
	res, err := imaging.Process(a, imaging.DefaultOptions())
	require.NoError(t, err)
	assert.Less(t, res.Width, 640)
}

func TestPrompts(t *testing.T) {
	day := internal.TimelineDay{
		Date:      "2026-01-02",
		DayHeader: "Friday, January 2",
		Events: []internal.Event{
			{Heading: "Breakfast", Location: "Carmel"},
			{Heading: "Point Lobos hike", Location: "Point Lobos"},
			{Heading: "Gallery walk", Location: "Carmel"},
			{Heading: "Dinner", Location: "Big Sur"},
		},
	}
	banner := BannerPrompt(day)
	assert.Contains(t, banner, "A panorama of Carmel featuring Breakfast, Point Lobos hike, Gallery walk.")
	assert.Contains(t, banner, "Work these places into the scene: Point Lobos, Big Sur.")
	assert.NotContains(t, banner, "Dinner")

	assert.Contains(t, BannerPrompt(internal.TimelineDay{Date: "2026-01-03"}), "the destination")

	drive := ThumbnailPrompt(internal.Event{Kind: "Drive", TravelFrom: "Hotel Zephyr", TravelTo: "Carmel"})
	assert.Contains(t, drive, "A drive from Hotel Zephyr to Carmel, arriving at Carmel.")

	narrative := NarrativePrompt(internal.Event{Heading: "Dinner", Who: []string{"alice", "bob"}})
	assert.Contains(t, narrative, "Event: Dinner\n")
	assert.Contains(t, narrative, "Location: N/A\n")
	assert.Contains(t, narrative, "Participants: alice, bob\n")
}
