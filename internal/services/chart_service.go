package services

import (
	"fmt"
	"io"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const chartMaxAuthors = 20

// ChartService renders interactive HTML charts from aggregated workflow
// statistics and ownership timelines
type ChartService struct {
	authorStatsService *AuthorStatsService
}

// NewChartService creates a new chart service
func NewChartService(authorStatsService *AuthorStatsService) *ChartService {
	return &ChartService{authorStatsService: authorStatsService}
}

// RenderContributionsChart writes a bar chart of workflow commits per
// contributor for a repository
func (s *ChartService) RenderContributionsChart(repositoryID string, w io.Writer) error {
	stats, err := s.authorStatsService.GetAuthorStats(repositoryID)
	if err != nil {
		return fmt.Errorf("failed to load author stats: %w", err)
	}

	if len(stats) > chartMaxAuthors {
		stats = stats[:chartMaxAuthors]
	}

	authors := make([]string, len(stats))
	commits := make([]opts.BarData, len(stats))
	for i, stat := range stats {
		authors[i] = stat.Author
		commits[i] = opts.BarData{Value: stat.Commits}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Workflow Contributions",
			Subtitle: "Commits touching workflow files per contributor",
			Left:     "2%",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Contributor"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Commits"}),
	)
	bar.SetXAxis(authors)
	bar.AddSeries("commits", commits)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}

	return nil
}

// RenderOwnershipChart writes a line chart of cumulative commits per
// contributor over one workflow file's history. The highest line at any
// point is the file's leading author at that point.
func (s *ChartService) RenderOwnershipChart(repositoryID, file string, w io.Writer) error {
	timeline, err := s.authorStatsService.GetFileTimeline(repositoryID, file)
	if err != nil {
		return fmt.Errorf("failed to load ownership timeline: %w", err)
	}

	dates := make([]string, len(timeline))
	cumulative := make(map[string][]int)
	counts := make(map[string]int)

	for i, event := range timeline {
		dates[i] = event.Date.Format("2006-01-02")
		counts[event.Author]++
		for author := range counts {
			cumulative[author] = append(cumulative[author], counts[author])
		}
	}

	authors := make([]string, 0, len(cumulative))
	for author := range cumulative {
		authors = append(authors, author)
	}
	sort.Strings(authors)

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Ownership Timeline: " + file,
			Subtitle: "Cumulative commits per contributor; the leading line owns the file",
			Left:     "2%",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "5px", Left: "40%"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Date"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Commits"}),
	)
	line.SetXAxis(dates)

	for _, author := range authors {
		values := cumulative[author]
		data := make([]opts.LineData, len(timeline))
		// Series start at zero until the author's first commit
		offset := len(timeline) - len(values)
		for i := range timeline {
			if i < offset {
				data[i] = opts.LineData{Value: 0}
			} else {
				data[i] = opts.LineData{Value: values[i-offset]}
			}
		}
		line.AddSeries(author, data)
	}

	if err := line.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}

	return nil
}
