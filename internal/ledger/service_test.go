package ledger_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/kakeibo/internal/ledger"
)

type fetchingRemote struct {
	*ledger.MockRemote
	*ledger.MockFetcher
}

func lunch() ledger.ExpenseParams {
	return ledger.ExpenseParams{
		Date:     "2024-01-01",
		Category: "食費",
		Amount:   decimal.NewFromInt(500),
		Memo:     "lunch",
		Type:     ledger.TypeExpense,
	}
}

func TestService_Init(t *testing.T) {
	type testCase struct {
		name      string
		setupMock func(m *ledger.MockRepository)
		wantCats  int
		wantErr   bool
	}

	stored := ledger.Snapshot{
		Categories: []ledger.Category{{Name: "食費", Type: ledger.TypeExpense}},
	}

	tests := []testCase{
		{
			name: "LoadsSaved",
			setupMock: func(m *ledger.MockRepository) {
				m.EXPECT().Load(gomock.Any()).Return(&stored, nil)
			},
			wantCats: 1,
		},
		{
			name: "SeedsDefaultsOnFirstRun",
			setupMock: func(m *ledger.MockRepository) {
				m.EXPECT().Load(gomock.Any()).Return(nil, ledger.ErrNotFound)
				m.EXPECT().
					Save(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, snap *ledger.Snapshot) error {
						assert.Len(t, snap.Categories, 12)
						return nil
					})
			},
			wantCats: 12,
		},
		{
			name: "LoadError",
			setupMock: func(m *ledger.MockRepository) {
				m.EXPECT().Load(gomock.Any()).Return(nil, errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := ledger.NewMockRepository(ctrl)
			tt.setupMock(repo)

			svc := ledger.NewService(ledger.NewStore(ledger.Snapshot{}), repo, nil)
			err := svc.Init(context.Background())

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Len(t, svc.Store().Categories(), tt.wantCats)
		})
	}
}

func TestService_AddExpense(t *testing.T) {
	type testCase struct {
		name          string
		params        ledger.ExpenseParams
		setupMock     func(repo *ledger.MockRepository, remote *ledger.MockRemote)
		wantErr       error
		wantRemoteErr bool
		wantStored    int
	}

	tests := []testCase{
		{
			name:   "Success",
			params: lunch(),
			setupMock: func(repo *ledger.MockRepository, remote *ledger.MockRemote) {
				repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
				remote.EXPECT().
					InsertExpense(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, e ledger.Expense) error {
						assert.Equal(t, "lunch", e.Memo)
						return nil
					})
			},
			wantStored: 1,
		},
		{
			name:   "RemoteFailureKeepsLocalChange",
			params: lunch(),
			setupMock: func(repo *ledger.MockRepository, remote *ledger.MockRemote) {
				repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
				remote.EXPECT().InsertExpense(gomock.Any(), gomock.Any()).Return(errors.New("503"))
			},
			wantErr:       ledger.ErrRemoteSync,
			wantRemoteErr: true,
			wantStored:    1,
		},
		{
			name:   "SaveFailureRollsBack",
			params: lunch(),
			setupMock: func(repo *ledger.MockRepository, remote *ledger.MockRemote) {
				repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))
			},
			wantErr:    errors.New("disk full"),
			wantStored: 0,
		},
		{
			name: "ValidationSkipsPersistence",
			params: func() ledger.ExpenseParams {
				p := lunch()
				p.Amount = decimal.Zero

				return p
			}(),
			setupMock:  func(*ledger.MockRepository, *ledger.MockRemote) {},
			wantErr:    ledger.ErrValidation,
			wantStored: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := ledger.NewMockRepository(ctrl)
			remote := ledger.NewMockRemote(ctrl)
			tt.setupMock(repo, remote)

			svc := ledger.NewService(newTestStore(t), repo, remote)
			got, err := svc.AddExpense(context.Background(), tt.params)

			assert.Len(t, svc.Store().Expenses(), tt.wantStored)

			switch {
			case tt.wantErr == nil:
				require.NoError(t, err)
				assert.Equal(t, got, svc.Store().Expenses()[0])
			case tt.wantRemoteErr:
				require.ErrorIs(t, err, ledger.ErrRemoteSync)
				assert.Equal(t, "lunch", got.Memo)
			case errors.Is(tt.wantErr, ledger.ErrValidation):
				require.ErrorIs(t, err, ledger.ErrValidation)
			default:
				require.Error(t, err)
				assert.NotErrorIs(t, err, ledger.ErrRemoteSync)
			}
		})
	}
}

func TestService_DeleteCategoryCascade(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := ledger.NewMockRepository(ctrl)
	remote := ledger.NewMockRemote(ctrl)

	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).Times(3)
	remote.EXPECT().InsertExpense(gomock.Any(), gomock.Any()).Return(nil)
	remote.EXPECT().InsertSavingTarget(gomock.Any(), gomock.Any()).Return(nil)
	remote.EXPECT().
		DeleteCategory(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, d ledger.CategoryDeletion) error {
			assert.Equal(t, "食費", d.Category.Name)
			assert.Len(t, d.Expenses, 1)
			assert.NotNil(t, d.Target)

			return nil
		})

	svc := ledger.NewService(newTestStore(t), repo, remote)
	ctx := context.Background()

	_, err := svc.AddExpense(ctx, lunch())
	require.NoError(t, err)

	_, err = svc.AddSavingTarget(ctx, ledger.SavingTarget{Category: "食費", Amount: decimal.NewFromInt(10000)})
	require.NoError(t, err)

	cat, err := svc.Store().CategoryByName("食費")
	require.NoError(t, err)

	_, err = svc.DeleteCategory(ctx, cat.ID, false)
	require.ErrorIs(t, err, ledger.ErrCategoryInUse)

	_, err = svc.DeleteCategory(ctx, cat.ID, true)
	require.NoError(t, err)

	assert.Empty(t, svc.Store().Expenses())
	assert.Empty(t, svc.Store().SavingTargets())
}

func TestService_RenameCategory(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := ledger.NewMockRepository(ctrl)
	remote := ledger.NewMockRemote(ctrl)

	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	remote.EXPECT().
		RenameCategory(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, r ledger.CategoryRename) error {
			assert.Equal(t, "食費", r.OldName)
			assert.Equal(t, "外食", r.Category.Name)

			return nil
		})

	svc := ledger.NewService(newTestStore(t), repo, remote)
	ctx := context.Background()

	cat, err := svc.Store().CategoryByName("食費")
	require.NoError(t, err)

	_, err = svc.RenameCategory(ctx, cat.ID, "外食")
	require.NoError(t, err)

	// Unchanged names are persisted but not synced.
	_, err = svc.RenameCategory(ctx, cat.ID, "外食")
	require.NoError(t, err)
}

func TestService_DeleteSavingTarget(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := ledger.NewMockRepository(ctrl)
	remote := ledger.NewMockRemote(ctrl)

	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	remote.EXPECT().InsertSavingTarget(gomock.Any(), gomock.Any()).Return(nil)
	remote.EXPECT().DeleteSavingTarget(gomock.Any(), "食費").Return(nil)

	svc := ledger.NewService(newTestStore(t), repo, remote)
	ctx := context.Background()

	_, err := svc.AddSavingTarget(ctx, ledger.SavingTarget{Category: "食費", Amount: decimal.NewFromInt(100)})
	require.NoError(t, err)

	removed, err := svc.DeleteSavingTarget(ctx, "食費")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = svc.DeleteSavingTarget(ctx, "食費")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestService_Reset(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := ledger.NewMockRepository(ctrl)
	remote := ledger.NewMockRemote(ctrl)

	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	remote.EXPECT().InsertExpense(gomock.Any(), gomock.Any()).Return(nil)
	remote.EXPECT().
		Reset(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, snap *ledger.Snapshot) error {
			assert.Empty(t, snap.Expenses)
			assert.Len(t, snap.Categories, 12)

			return nil
		})

	svc := ledger.NewService(newTestStore(t), repo, remote)
	ctx := context.Background()

	_, err := svc.AddExpense(ctx, lunch())
	require.NoError(t, err)

	err = svc.Reset(ctx, false)
	require.ErrorIs(t, err, ledger.ErrValidation)
	assert.Len(t, svc.Store().Expenses(), 1)

	require.NoError(t, svc.Reset(ctx, true))
	assert.Empty(t, svc.Store().Expenses())
}

func TestService_Pull(t *testing.T) {
	t.Run("ReplacesLocalState", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := ledger.NewMockRepository(ctrl)
		remote := fetchingRemote{ledger.NewMockRemote(ctrl), ledger.NewMockFetcher(ctrl)}

		remote.MockFetcher.EXPECT().Fetch(gomock.Any()).Return(&ledger.Snapshot{
			Expenses: []ledger.Expense{{Date: "2024-01-01", Category: "食費", Amount: decimal.NewFromInt(1), Type: ledger.TypeExpense}},
		}, nil)
		repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

		svc := ledger.NewService(newTestStore(t), repo, remote)
		require.NoError(t, svc.Pull(context.Background()))

		assert.Len(t, svc.Store().Expenses(), 1)
		assert.Len(t, svc.Store().Categories(), 12, "empty remote categories fall back to defaults")
	})

	t.Run("RejectsBrokenSnapshot", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := ledger.NewMockRepository(ctrl)
		remote := fetchingRemote{ledger.NewMockRemote(ctrl), ledger.NewMockFetcher(ctrl)}

		remote.MockFetcher.EXPECT().Fetch(gomock.Any()).Return(&ledger.Snapshot{
			Categories: []ledger.Category{
				{ID: uuid.New(), Name: "食費", Type: ledger.TypeExpense},
				{ID: uuid.New(), Name: "食費", Type: ledger.TypeIncome},
			},
			SavingTargets: []ledger.SavingTarget{
				{Category: "食費", Amount: decimal.NewFromInt(1)},
				{Category: "食費", Amount: decimal.NewFromInt(2)},
				{Category: "消えた", Amount: decimal.NewFromInt(-5)},
			},
		}, nil)

		store := newTestStore(t)
		before := store.Snapshot()

		svc := ledger.NewService(store, repo, remote)
		err := svc.Pull(context.Background())
		require.ErrorIs(t, err, ledger.ErrRemoteSync)
		require.ErrorIs(t, err, ledger.ErrValidation)

		assert.Equal(t, before, svc.Store().Snapshot())
	})

	t.Run("FetchFailure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := ledger.NewMockRepository(ctrl)
		remote := fetchingRemote{ledger.NewMockRemote(ctrl), ledger.NewMockFetcher(ctrl)}

		remote.MockFetcher.EXPECT().Fetch(gomock.Any()).Return(nil, errors.New("timeout"))

		svc := ledger.NewService(newTestStore(t), repo, remote)
		err := svc.Pull(context.Background())
		require.ErrorIs(t, err, ledger.ErrRemoteSync)
	})

	t.Run("UnsupportedRemote", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc := ledger.NewService(newTestStore(t), ledger.NewMockRepository(ctrl), ledger.NewMockRemote(ctrl))
		err := svc.Pull(context.Background())
		require.ErrorIs(t, err, ledger.ErrRemoteSync)
	})
}

func TestService_ResetSyncsPersistedSnapshot(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := ledger.NewMockRepository(ctrl)
	remote := ledger.NewMockRemote(ctrl)

	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	remote.EXPECT().InsertExpense(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	remote.EXPECT().
		Reset(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, snap *ledger.Snapshot) error {
			assert.Empty(t, snap.Expenses, "a later mutation leaked into the reset snapshot")
			return nil
		}).
		AnyTimes()

	svc := ledger.NewService(newTestStore(t), repo, remote)
	ctx := context.Background()

	for range 50 {
		var wg sync.WaitGroup

		wg.Add(2)

		go func() {
			defer wg.Done()
			assert.NoError(t, svc.Reset(ctx, true))
		}()

		go func() {
			defer wg.Done()
			_, err := svc.AddExpense(ctx, lunch())
			assert.NoError(t, err)
		}()

		wg.Wait()
	}
}
