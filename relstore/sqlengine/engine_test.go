package sqlengine_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-go/relstore"
	"github.com/AntonStoeckl/library-lending-go/relstore/sqlengine"
	"github.com/AntonStoeckl/library-lending-go/testutil/observability/testdoubles"
	"github.com/AntonStoeckl/library-lending-go/testutil/storewrapper"
)

var errRejectedByCaller = errors.New("rejected by caller")

func Test_WithinUnitOfWork_CommitsWhenFnSucceeds(t *testing.T) {
	// setup
	ctx := context.Background()
	wrapper := storewrapper.CreateWrapperWithTestConfig(t)
	defer wrapper.Close()
	store := wrapper.GetStore()
	storewrapper.CleanUp(t, wrapper)

	// act
	err := store.WithinUnitOfWork(ctx, func(ctx context.Context, uow relstore.UnitOfWork) error {
		return uow.InsertBook(ctx, relstore.BookRecord{ID: 1, Title: "Dune", Author: "Herbert", Genre: "SciFi"})
	})

	// assert
	require.NoError(t, err)
	book, err := store.FindBook(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Dune", book.Title)
	assert.True(t, book.Available)
	assert.Nil(t, book.HolderID)
}

func Test_WithinUnitOfWork_RollsBackAndReturnsTheErrorOfFn(t *testing.T) {
	// setup
	ctx := context.Background()
	wrapper := storewrapper.CreateWrapperWithTestConfig(t)
	defer wrapper.Close()
	store := wrapper.GetStore()
	storewrapper.CleanUp(t, wrapper)

	// act
	err := store.WithinUnitOfWork(ctx, func(ctx context.Context, uow relstore.UnitOfWork) error {
		if insertErr := uow.InsertBook(ctx, relstore.BookRecord{ID: 1, Title: "Dune", Author: "Herbert", Genre: "SciFi"}); insertErr != nil {
			return insertErr
		}

		return errRejectedByCaller
	})

	// assert
	assert.Equal(t, errRejectedByCaller, err)
	assert.Equal(t, 0, storewrapper.CountRowsFromDB(t, wrapper, store.Tables().Books))
}

func Test_UnitOfWork_CompareAndSetWritesReportConflicts(t *testing.T) {
	// setup
	ctx := context.Background()
	wrapper := storewrapper.CreateWrapperWithTestConfig(t)
	defer wrapper.Close()
	store := wrapper.GetStore()
	storewrapper.CleanUp(t, wrapper)

	// arrange
	require.NoError(t, store.WithinUnitOfWork(ctx, func(ctx context.Context, uow relstore.UnitOfWork) error {
		if err := uow.InsertBorrower(ctx, relstore.BorrowerRecord{ID: 10, Name: "Ann", Email: "ann@example.com"}); err != nil {
			return err
		}
		if err := uow.InsertBook(ctx, relstore.BookRecord{ID: 1, Title: "Dune", Author: "Herbert", Genre: "SciFi"}); err != nil {
			return err
		}

		return uow.MarkBookLent(ctx, 1, 10)
	}))

	testCases := []struct {
		name  string
		write func(ctx context.Context, uow relstore.UnitOfWork) error
	}{
		{
			name:  "lending a book that is on loan",
			write: func(ctx context.Context, uow relstore.UnitOfWork) error { return uow.MarkBookLent(ctx, 1, 10) },
		},
		{
			name:  "returning a book for the wrong borrower",
			write: func(ctx context.Context, uow relstore.UnitOfWork) error { return uow.MarkBookReturned(ctx, 1, 11) },
		},
		{
			name:  "removing a book that is on loan",
			write: func(ctx context.Context, uow relstore.UnitOfWork) error { return uow.DeleteAvailableBook(ctx, 1) },
		},
		{
			name: "incrementing the loan count beyond the limit",
			write: func(ctx context.Context, uow relstore.UnitOfWork) error {
				return uow.IncrementIssuedBookCount(ctx, 10, 0)
			},
		},
		{
			name:  "decrementing a loan count of zero",
			write: func(ctx context.Context, uow relstore.UnitOfWork) error { return uow.DecrementIssuedBookCount(ctx, 10) },
		},
		{
			name:  "deleting a loan that does not exist",
			write: func(ctx context.Context, uow relstore.UnitOfWork) error { return uow.DeleteLoan(ctx, 1, 10) },
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			err := store.WithinUnitOfWork(ctx, tc.write)

			// assert
			assert.ErrorIs(t, err, relstore.ErrConcurrencyConflict)
		})
	}
}

func Test_UnitOfWork_DuplicateInsertIsAConflict(t *testing.T) {
	// setup
	ctx := context.Background()
	wrapper := storewrapper.CreateWrapperWithTestConfig(t)
	defer wrapper.Close()
	store := wrapper.GetStore()
	storewrapper.CleanUp(t, wrapper)

	book := relstore.BookRecord{ID: 1, Title: "Dune", Author: "Herbert", Genre: "SciFi"}
	insert := func(ctx context.Context, uow relstore.UnitOfWork) error { return uow.InsertBook(ctx, book) }

	// arrange
	require.NoError(t, store.WithinUnitOfWork(ctx, insert))

	// act
	err := store.WithinUnitOfWork(ctx, insert)

	// assert
	assert.ErrorIs(t, err, relstore.ErrConcurrencyConflict)
	assert.ErrorIs(t, err, relstore.ErrDuplicateKey)
	assert.Equal(t, 1, storewrapper.CountRowsFromDB(t, wrapper, store.Tables().Books))
}

func Test_Engine_ReportsRecordNotFound(t *testing.T) {
	// setup
	ctx := context.Background()
	wrapper := storewrapper.CreateWrapperWithTestConfig(t)
	defer wrapper.Close()
	store := wrapper.GetStore()
	storewrapper.CleanUp(t, wrapper)

	// act
	_, bookErr := store.FindBook(ctx, 404)
	_, borrowerErr := store.FindBorrower(ctx, 404)
	loanErr := store.WithinUnitOfWork(ctx, func(ctx context.Context, uow relstore.UnitOfWork) error {
		_, err := uow.FindLoanByBook(ctx, 404)
		return err
	})

	// assert
	assert.ErrorIs(t, bookErr, relstore.ErrRecordNotFound)
	assert.ErrorIs(t, borrowerErr, relstore.ErrRecordNotFound)
	assert.ErrorIs(t, loanErr, relstore.ErrRecordNotFound)
}

func Test_UnitOfWork_LoanRoundTrip(t *testing.T) {
	// setup
	ctx := context.Background()
	wrapper := storewrapper.CreateWrapperWithTestConfig(t)
	defer wrapper.Close()
	store := wrapper.GetStore()
	storewrapper.CleanUp(t, wrapper)

	issuedAt := time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)
	dueAt := issuedAt.AddDate(0, 0, 15)

	// act
	err := store.WithinUnitOfWork(ctx, func(ctx context.Context, uow relstore.UnitOfWork) error {
		if err := uow.InsertBorrower(ctx, relstore.BorrowerRecord{ID: 10, Name: "Ann", Email: "ann@example.com"}); err != nil {
			return err
		}
		if err := uow.InsertBook(ctx, relstore.BookRecord{ID: 1, Title: "Dune", Author: "Herbert", Genre: "SciFi"}); err != nil {
			return err
		}
		if err := uow.MarkBookLent(ctx, 1, 10); err != nil {
			return err
		}
		if err := uow.IncrementIssuedBookCount(ctx, 10, 3); err != nil {
			return err
		}

		return uow.InsertLoan(ctx, relstore.LoanRecord{
			BookID: 1, BookTitle: "Dune", BorrowerID: 10, IssueDate: issuedAt, DueDate: dueAt,
		})
	})
	require.NoError(t, err)

	// assert
	var loan relstore.LoanRecord
	require.NoError(t, store.WithinUnitOfWork(ctx, func(ctx context.Context, uow relstore.UnitOfWork) error {
		var findErr error
		loan, findErr = uow.FindLoanByBook(ctx, 1)
		return findErr
	}))
	assert.Equal(t, int64(10), loan.BorrowerID)
	assert.Equal(t, "Dune", loan.BookTitle)
	assert.True(t, issuedAt.Equal(loan.IssueDate))
	assert.True(t, dueAt.Equal(loan.DueDate))

	borrower, err := store.FindBorrower(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, borrower.IssuedBookCount)

	book, err := store.FindBook(ctx, 1)
	require.NoError(t, err)
	assert.False(t, book.Available)
	require.NotNil(t, book.HolderID)
	assert.Equal(t, int64(10), *book.HolderID)
}

func Test_EnsureSchema_IsIdempotent(t *testing.T) {
	// setup
	ctx := context.Background()
	wrapper := storewrapper.CreateWrapperWithTestConfig(t)
	defer wrapper.Close()

	// act
	err := wrapper.GetStore().EnsureSchema(ctx)

	// assert
	assert.NoError(t, err)
}

func Test_WithinUnitOfWork_IsObservable(t *testing.T) {
	// setup
	ctx := context.Background()
	metricsSpy := testdoubles.NewMetricsCollectorSpy()
	tracingSpy := testdoubles.NewTracingCollectorSpy()
	logSpy := testdoubles.NewLogHandlerSpy(false)
	wrapper := storewrapper.CreateWrapperWithTestConfig(t,
		sqlengine.WithMetrics(metricsSpy),
		sqlengine.WithTracing(tracingSpy),
		sqlengine.WithLogger(slog.New(logSpy)),
	)
	defer wrapper.Close()
	store := wrapper.GetStore()
	storewrapper.CleanUp(t, wrapper)

	insert := func(ctx context.Context, uow relstore.UnitOfWork) error {
		return uow.InsertBook(ctx, relstore.BookRecord{ID: 1, Title: "Dune", Author: "Herbert", Genre: "SciFi"})
	}

	// act
	require.NoError(t, store.WithinUnitOfWork(ctx, insert))
	conflictErr := store.WithinUnitOfWork(ctx, insert)
	rejectErr := store.WithinUnitOfWork(ctx, func(context.Context, relstore.UnitOfWork) error {
		return errRejectedByCaller
	})

	// assert
	require.ErrorIs(t, conflictErr, relstore.ErrConcurrencyConflict)
	require.ErrorIs(t, rejectErr, errRejectedByCaller)

	assert.True(t, metricsSpy.HasDurationRecord("relstore_unit_of_work_duration_seconds",
		map[string]string{"operation": "unit_of_work", "status": "success"}))
	assert.True(t, metricsSpy.HasDurationRecord("relstore_unit_of_work_duration_seconds",
		map[string]string{"operation": "unit_of_work", "status": "conflict"}))
	assert.True(t, metricsSpy.HasDurationRecord("relstore_unit_of_work_duration_seconds",
		map[string]string{"operation": "unit_of_work", "status": "rejected"}))
	assert.True(t, metricsSpy.HasCounterRecord("relstore_concurrency_conflicts_total",
		map[string]string{"operation": "insert_book"}))

	assert.True(t, tracingSpy.HasSpanRecordForName("relstore.unit_of_work").WithStatus("success").Assert())
	assert.Equal(t, 3, tracingSpy.CountSpanRecordsForName("relstore.unit_of_work"))
	errorTypes := make([]string, 0)
	for _, span := range tracingSpy.GetSpanRecords() {
		if span.Name == "relstore.unit_of_work" && span.Status == "error" {
			errorTypes = append(errorTypes, span.EndAttributes["error_type"])
		}
	}
	assert.ElementsMatch(t, []string{"concurrency_conflict", "rejected"}, errorTypes)

	assert.True(t, logSpy.HasInfoLog("relstore operation: unit of work committed").WithDurationMS().Assert())
	assert.True(t, logSpy.HasInfoLog("relstore operation: duplicate key on insert").
		WithAttrValue("action", "insert_book").Assert())
	assert.True(t, logSpy.HasInfoLog("relstore operation: unit of work rolled back").
		WithAttrValue("reason", errRejectedByCaller.Error()).Assert())
	assert.True(t, logSpy.HasDebugLog("executed sql for: insert_book").Assert())
}

func Test_ReportingQueries_AreObservable(t *testing.T) {
	// setup
	ctx := context.Background()
	metricsSpy := testdoubles.NewMetricsCollectorSpy()
	tracingSpy := testdoubles.NewTracingCollectorSpy()
	logSpy := testdoubles.NewLogHandlerSpy(false)
	wrapper := storewrapper.CreateWrapperWithTestConfig(t,
		sqlengine.WithMetrics(metricsSpy),
		sqlengine.WithTracing(tracingSpy),
		sqlengine.WithLogger(slog.New(logSpy)),
	)
	defer wrapper.Close()
	store := wrapper.GetStore()
	storewrapper.CleanUp(t, wrapper)

	// arrange
	require.NoError(t, store.WithinUnitOfWork(ctx, func(ctx context.Context, uow relstore.UnitOfWork) error {
		return uow.InsertBook(ctx, relstore.BookRecord{ID: 1, Title: "Dune", Author: "Herbert", Genre: "SciFi"})
	}))

	// act
	books, err := store.AvailableBooks(ctx)

	// assert
	require.NoError(t, err)
	assert.Len(t, books, 1)
	assert.True(t, metricsSpy.HasDurationRecord("relstore_query_duration_seconds",
		map[string]string{"operation": "available_books", "status": "success"}))
	assert.True(t, metricsSpy.HasValueRecord("relstore_rows_queried_total", 1))
	assert.True(t, tracingSpy.HasSpanRecordForName("relstore.query").
		WithStartAttribute("operation", "available_books").WithStatus("success").Assert())
	assert.True(t, logSpy.HasInfoLog("relstore operation: query completed").
		WithAttrValue("action", "available_books").Assert())
}
