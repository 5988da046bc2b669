package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/jengzang/contour-backend/internal/codec"
	"github.com/jengzang/contour-backend/internal/contour"
	"github.com/jengzang/contour-backend/internal/fetch"
	"github.com/jengzang/contour-backend/internal/models"
)

// ContourService handles business logic for contour extraction
type ContourService struct {
	fetcher        Fetcher
	defaultNInterp int
	maxNInterp     int
	timeout        time.Duration
}

// NewContourService creates a new contour service. A zero timeout leaves
// the request context as the only deadline.
func NewContourService(fetcher Fetcher, defaultNInterp, maxNInterp int, timeout time.Duration) *ContourService {
	return &ContourService{
		fetcher:        fetcher,
		defaultNInterp: defaultNInterp,
		maxNInterp:     maxNInterp,
		timeout:        timeout,
	}
}

// contourJob is a validated contour query
type contourJob struct {
	url       string
	domain    contour.Domain
	cols      [3]string
	level     float64
	fill      float64
	nInterp   int
	format    string
	tolerance float64
}

// op names the job in cache keys; every parameter that changes the
// output is part of it.
func (j *contourJob) op() string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	return strings.Join([]string{
		"contour",
		f(j.domain.Lo), f(j.domain.Hi),
		strings.Join(j.cols[:], "\x1f"),
		f(j.level), f(j.fill),
		strconv.Itoa(j.nInterp),
		j.format,
		f(j.tolerance),
	}, "\x00")
}

func (j *contourJob) contentType() string {
	if j.format == models.FormatGeoJSON {
		return "application/geo+json"
	}
	return "text/csv; charset=utf-8"
}

func (s *ContourService) validate(q models.ContourQuery) (*contourJob, error) {
	if len(q.Domain) != 2 {
		return nil, fmt.Errorf("%w: domain needs exactly two values, got %d", ErrInvalidQuery, len(q.Domain))
	}
	if len(q.Cols) != 3 {
		return nil, fmt.Errorf("%w: cols needs exactly three names, got %d", ErrInvalidQuery, len(q.Cols))
	}

	job := &contourJob{
		url:       q.URL,
		domain:    contour.Domain{Lo: q.Domain[0], Hi: q.Domain[1]},
		cols:      [3]string{q.Cols[0], q.Cols[1], q.Cols[2]},
		level:     q.ContourValue,
		fill:      q.FillValue,
		nInterp:   q.NInterp,
		format:    q.Format,
		tolerance: q.Tolerance,
	}
	if job.format == "" {
		job.format = models.FormatCSV
	}
	if job.format != models.FormatCSV && job.format != models.FormatGeoJSON {
		return nil, fmt.Errorf("%w: unknown format %q", ErrInvalidQuery, job.format)
	}
	if job.nInterp == 0 {
		job.nInterp = s.defaultNInterp
	}
	if job.nInterp < 2 || job.nInterp > s.maxNInterp {
		return nil, fmt.Errorf("%w: n_interp must be between 2 and %d, got %d", ErrInvalidQuery, s.maxNInterp, job.nInterp)
	}
	if job.tolerance < 0 {
		return nil, fmt.Errorf("%w: negative tolerance %g", ErrInvalidQuery, job.tolerance)
	}
	if err := job.domain.Validate(); err != nil {
		return nil, err
	}

	return job, nil
}

// Contour downloads the table at q.URL and returns the encoded contour
func (s *ContourService) Contour(ctx context.Context, q models.ContourQuery) (*fetch.Resource, error) {
	job, err := s.validate(q)
	if err != nil {
		return nil, err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	res, err := s.fetcher.Fetch(ctx, job.url, job.op(), func(body []byte) ([]byte, error) {
		return s.compute(ctx, job, body)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get contour: %w", err)
	}

	return &fetch.Resource{Body: res.Body, ContentType: job.contentType()}, nil
}

func (s *ContourService) compute(ctx context.Context, job *contourJob, body []byte) ([]byte, error) {
	start := time.Now()

	samples, err := codec.DecodeSamples(bytes.NewReader(body), job.cols)
	if err != nil {
		return nil, err
	}

	grid, err := contour.Interpolate(samples, job.domain, job.nInterp, job.fill)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	switch job.format {
	case models.FormatGeoJSON:
		paths := codec.SimplifyPaths(contour.Trace(grid, job.level), job.tolerance)
		err = codec.EncodeGeoJSON(&buf, paths, job.level)
	default:
		err = codec.EncodeCSV(&buf, codec.Simplify(contour.Extract(grid, job.level), job.tolerance))
	}
	if err != nil {
		return nil, err
	}

	log.Printf("Computed contour %g over %d samples on a %dx%d grid in %v",
		job.level, len(samples), job.nInterp, job.nInterp, time.Since(start))
	return buf.Bytes(), nil
}
