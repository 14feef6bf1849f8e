package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"cardiodash/adapters/excel"
	"cardiodash/adapters/source"
	"cardiodash/domain/core"
	"cardiodash/domain/dataset"
	"cardiodash/internal"
	apperrors "cardiodash/internal/errors"
	"cardiodash/internal/ingest"
	"cardiodash/internal/metrics"
	"cardiodash/internal/store"
)

type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) Fetch(ctx context.Context, name core.SourceName) ([]byte, error) {
	args := m.Called(ctx, name)
	var data []byte
	if v := args.Get(0); v != nil {
		data = v.([]byte)
	}
	return data, args.Error(1)
}

// csvRows renders one valid row per age
func csvRows(ages ...int) []byte {
	var b strings.Builder
	for _, age := range ages {
		fmt.Fprintf(&b, "%d,1,4,160,286,0,2,108,1,1.5,2,3,3,2\n", age)
	}
	return []byte(b.String())
}

func newService(t *testing.T, fetcher *mockFetcher) (*DashboardService, *store.Store) {
	t.Helper()
	logger := internal.NewNopLogger()
	st := store.New(logger)
	svc := NewDashboardService(st, fetcher, source.DefaultCatalog(), ingest.NewProcessor(logger), logger, metrics.NewCollector("test"), DefaultDashboardConfig())
	return svc, st
}

func TestSelectSource(t *testing.T) {
	fetcher := new(mockFetcher)
	fetcher.On("Fetch", mock.Anything, core.SourceName("Cleveland")).Return(csvRows(63, 67, 41), nil).Once()
	svc, _ := newService(t, fetcher)

	ds, err := svc.SelectSource(context.Background(), "cleveland")
	require.NoError(t, err)
	assert.Equal(t, 3, ds.Len())
	assert.Same(t, ds, svc.Current())
	assert.Equal(t, dataset.SourceOrigin("Cleveland"), ds.Origin())

	// cached for comparison without another fetch
	cached, err := svc.Source(context.Background(), "Cleveland")
	require.NoError(t, err)
	assert.Same(t, ds, cached)
	fetcher.AssertExpectations(t)
}

func TestSelectSource_UnknownName(t *testing.T) {
	fetcher := new(mockFetcher)
	svc, _ := newService(t, fetcher)

	_, err := svc.SelectSource(context.Background(), "Atlantis")
	assert.ErrorIs(t, err, core.ErrUnknownSource)

	_, err = svc.SelectSource(context.Background(), "  ")
	assert.ErrorIs(t, err, core.ErrUnknownSource)
	fetcher.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything)
}

func TestSelectSource_FailureEmptiesDataset(t *testing.T) {
	fetcher := new(mockFetcher)
	fetcher.On("Fetch", mock.Anything, core.SourceName("Cleveland")).Return(csvRows(63), nil).Once()
	fetcher.On("Fetch", mock.Anything, core.SourceName("Hungarian")).Return([]byte("?,?,?\n"), nil).Once()
	fetcher.On("Fetch", mock.Anything, core.SourceName("Switzerland")).Return(nil, core.NewFetchError("Switzerland", errors.New("timeout"))).Once()
	svc, _ := newService(t, fetcher)

	_, err := svc.SelectSource(context.Background(), "Cleveland")
	require.NoError(t, err)
	assert.False(t, svc.Current().IsEmpty())

	_, err = svc.SelectSource(context.Background(), "Hungarian")
	assert.True(t, core.IsParseError(err))
	assert.Equal(t, apperrors.CodeParseError, apperrors.GetCode(err))
	assert.Equal(t, "no data", apperrors.Message(err))
	assert.True(t, svc.Current().IsEmpty())

	_, err = svc.SelectSource(context.Background(), "Switzerland")
	assert.ErrorIs(t, err, core.ErrFetchFailed)
	assert.Equal(t, apperrors.CodeExternalService, apperrors.GetCode(err))
	assert.True(t, svc.Current().IsEmpty())
	fetcher.AssertExpectations(t)
}

func TestSelectSource_StaleResponseDiscarded(t *testing.T) {
	fetcher := new(mockFetcher)
	started := make(chan struct{})
	release := make(chan struct{})

	fetcher.On("Fetch", mock.Anything, core.SourceName("Hungarian")).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(csvRows(40), nil).Once()
	fetcher.On("Fetch", mock.Anything, core.SourceName("Switzerland")).Return(csvRows(50, 51), nil).Once()
	svc, _ := newService(t, fetcher)

	type result struct {
		ds  *dataset.Dataset
		err error
	}
	slow := make(chan result, 1)
	go func() {
		ds, err := svc.SelectSource(context.Background(), "Hungarian")
		slow <- result{ds, err}
	}()
	<-started

	fast, err := svc.SelectSource(context.Background(), "Switzerland")
	require.NoError(t, err)

	close(release)
	late := <-slow
	assert.ErrorIs(t, late.err, core.ErrStaleLoad)
	require.NotNil(t, late.ds)
	assert.Equal(t, 1, late.ds.Len())

	assert.Same(t, fast, svc.Current())
	assert.Equal(t, 2, svc.Current().Len())
	fetcher.AssertExpectations(t)
}

func TestClearSupersedesInFlightLoad(t *testing.T) {
	fetcher := new(mockFetcher)
	started := make(chan struct{})
	release := make(chan struct{})
	fetcher.On("Fetch", mock.Anything, core.SourceName("Cleveland")).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(csvRows(63), nil).Once()
	svc, _ := newService(t, fetcher)

	done := make(chan error, 1)
	go func() {
		_, err := svc.SelectSource(context.Background(), "Cleveland")
		done <- err
	}()
	<-started
	svc.Clear()
	close(release)

	assert.ErrorIs(t, <-done, core.ErrStaleLoad)
	assert.True(t, svc.Current().IsEmpty())
}

func TestUpload_CSV(t *testing.T) {
	svc, _ := newService(t, new(mockFetcher))

	raw := append(csvRows(63, 67), []byte("67,1,4,160,286,0,2,108,1,1.5,2,3,3,2,extra\n")...)
	ds, err := svc.Upload(context.Background(), "../../heart.csv", raw)
	require.NoError(t, err)

	assert.Equal(t, 2, ds.Len())
	assert.Equal(t, 1, ds.Report().RejectedByReason[dataset.RejectWrongWidth])
	assert.Equal(t, dataset.UploadOrigin("heart.csv", "csv"), ds.Origin())
	assert.Same(t, ds, svc.Current())
}

func TestUpload_Workbook(t *testing.T) {
	svc, _ := newService(t, new(mockFetcher))

	var buf bytes.Buffer
	var rows [][]string
	for _, line := range strings.Split(strings.TrimSpace(string(csvRows(44, 55))), "\n") {
		rows = append(rows, strings.Split(line, ","))
	}
	require.NoError(t, excel.WriteWorkbook(&buf, nil, rows))

	ds, err := svc.Upload(context.Background(), "heart.xlsx", buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len())
	assert.Equal(t, "xlsx", ds.Origin().Format)
}

func TestUpload_Errors(t *testing.T) {
	logger := internal.NewNopLogger()
	st := store.New(logger)
	svc := NewDashboardService(st, new(mockFetcher), source.DefaultCatalog(), nil, logger, nil, DashboardConfig{MaxUploadBytes: 64})

	_, err := svc.Upload(context.Background(), "big.csv", bytes.Repeat([]byte("1"), 65))
	assert.Equal(t, apperrors.CodeTooLarge, apperrors.GetCode(err))

	_, err = svc.Upload(context.Background(), "old.csv", csvRows(63))
	require.NoError(t, err)
	require.False(t, svc.Current().IsEmpty())

	_, err = svc.Upload(context.Background(), "bad.csv", []byte("a,b\n"))
	assert.True(t, core.IsParseError(err))
	assert.Equal(t, "no data", apperrors.Message(err))
	assert.True(t, svc.Current().IsEmpty(), "a failed ingest leaves the empty state")
}

func TestPreloadCatalog(t *testing.T) {
	fetcher := new(mockFetcher)
	fetcher.On("Fetch", mock.Anything, core.SourceName("Cleveland")).Return(csvRows(63, 67), nil).Once()
	fetcher.On("Fetch", mock.Anything, core.SourceName("Hungarian")).Return(csvRows(40), nil).Once()
	fetcher.On("Fetch", mock.Anything, core.SourceName("Switzerland")).Return(nil, core.NewFetchError("Switzerland", errors.New("down"))).Once()
	svc, _ := newService(t, fetcher)

	err := svc.PreloadCatalog(context.Background())
	assert.ErrorIs(t, err, core.ErrFetchFailed)
	assert.True(t, svc.Current().IsEmpty(), "preload never replaces the working dataset")

	hu, err := svc.Source(context.Background(), "Hungarian")
	require.NoError(t, err)
	assert.Equal(t, 1, hu.Len())
	fetcher.AssertExpectations(t)
}
