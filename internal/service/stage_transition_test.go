package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/straye-as/pipeline-api/internal/domain"
	"github.com/straye-as/pipeline-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockStageUpdater struct {
	mock.Mock
}

func (m *mockStageUpdater) UpdateStage(ctx context.Context, actor domain.Actor, id uuid.UUID, stage domain.DealStage) (*domain.Deal, error) {
	args := m.Called(ctx, actor, id, stage)
	deal, _ := args.Get(0).(*domain.Deal)
	return deal, args.Error(1)
}

func boardDeal(title string, stage domain.DealStage) domain.Deal {
	d := domain.Deal{Title: title, Stage: stage}
	d.ID = uuid.New()
	return d
}

type boardRecorder struct {
	mu    sync.Mutex
	views [][]domain.Deal
}

func (r *boardRecorder) observe(deals []domain.Deal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views = append(r.views, deals)
}

func stagesOf(deals []domain.Deal) []domain.DealStage {
	out := make([]domain.DealStage, len(deals))
	for i, d := range deals {
		out[i] = d.Stage
	}
	return out
}

func TestMoveStage_NoopWhenAlreadyInStage(t *testing.T) {
	updater := &mockStageUpdater{}
	ctrl := service.NewStageTransitionController(updater, zap.NewNop())
	d1 := boardDeal("d1", domain.DealStageProposal)
	rec := &boardRecorder{}
	board := service.NewPipelineBoard([]domain.Deal{d1}, rec.observe)

	err := ctrl.MoveStage(context.Background(), testActor(), board, d1.ID, domain.DealStageProposal)

	require.NoError(t, err)
	updater.AssertNotCalled(t, "UpdateStage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, rec.views)
	assert.Equal(t, []domain.Deal{d1}, board.Deals())
}

func TestMoveStage_OptimisticThenConfirmed(t *testing.T) {
	d1 := boardDeal("d1", domain.DealStageQualification)
	d2 := boardDeal("d2", domain.DealStageDiscovery)
	rec := &boardRecorder{}
	board := service.NewPipelineBoard([]domain.Deal{d1, d2}, rec.observe)

	updater := &mockStageUpdater{}
	updater.On("UpdateStage", mock.Anything, testActor(), d1.ID, domain.DealStageNegotiation).
		Run(func(mock.Arguments) {
			// the move is already visible while the confirmation is in flight
			assert.Equal(t, []domain.DealStage{domain.DealStageNegotiation, domain.DealStageDiscovery}, stagesOf(board.Deals()))
		}).
		Return(&domain.Deal{Stage: domain.DealStageNegotiation}, nil)
	ctrl := service.NewStageTransitionController(updater, zap.NewNop())

	err := ctrl.MoveStage(context.Background(), testActor(), board, d1.ID, domain.DealStageNegotiation)

	require.NoError(t, err)
	updater.AssertExpectations(t)
	assert.Equal(t, []domain.DealStage{domain.DealStageNegotiation, domain.DealStageDiscovery}, stagesOf(board.Deals()))
	require.Len(t, rec.views, 1)
}

func TestMoveStage_RollbackOnConfirmFailure(t *testing.T) {
	d1 := boardDeal("d1", domain.DealStageQualification)
	d2 := boardDeal("d2", domain.DealStageDiscovery)
	original := []domain.Deal{d1, d2}
	rec := &boardRecorder{}
	board := service.NewPipelineBoard(original, rec.observe)

	cause := errors.New("server error")
	updater := &mockStageUpdater{}
	updater.On("UpdateStage", mock.Anything, testActor(), d1.ID, domain.DealStageProposal).Return(nil, cause)
	ctrl := service.NewStageTransitionController(updater, zap.NewNop())

	err := ctrl.MoveStage(context.Background(), testActor(), board, d1.ID, domain.DealStageProposal)

	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	updater.AssertNumberOfCalls(t, "UpdateStage", 1)

	require.Len(t, rec.views, 2)
	assert.Equal(t, []domain.DealStage{domain.DealStageProposal, domain.DealStageDiscovery}, stagesOf(rec.views[0]))
	assert.Equal(t, original, rec.views[1])
	assert.Equal(t, original, board.Deals())
}

func TestMoveStage_DealNotOnBoard(t *testing.T) {
	updater := &mockStageUpdater{}
	ctrl := service.NewStageTransitionController(updater, zap.NewNop())
	board := service.NewPipelineBoard([]domain.Deal{boardDeal("d1", domain.DealStageProposal)}, nil)

	err := ctrl.MoveStage(context.Background(), testActor(), board, uuid.New(), domain.DealStageNegotiation)

	assert.ErrorIs(t, err, service.ErrDealNotInCollection)
	updater.AssertNotCalled(t, "UpdateStage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestMoveStage_InvalidStage(t *testing.T) {
	updater := &mockStageUpdater{}
	ctrl := service.NewStageTransitionController(updater, zap.NewNop())
	d1 := boardDeal("d1", domain.DealStageProposal)
	board := service.NewPipelineBoard([]domain.Deal{d1}, nil)

	err := ctrl.MoveStage(context.Background(), testActor(), board, d1.ID, domain.DealStage("Archived"))

	assert.ErrorIs(t, err, service.ErrInvalidStage)
	assert.Equal(t, []domain.Deal{d1}, board.Deals())
}

func TestMoveStage_AnyToAnyStage(t *testing.T) {
	d1 := boardDeal("d1", domain.DealStageClosedLost)
	board := service.NewPipelineBoard([]domain.Deal{d1}, nil)
	updater := &mockStageUpdater{}
	updater.On("UpdateStage", mock.Anything, mock.Anything, d1.ID, domain.DealStageQualification).Return(&domain.Deal{}, nil)
	ctrl := service.NewStageTransitionController(updater, zap.NewNop())

	require.NoError(t, ctrl.MoveStage(context.Background(), testActor(), board, d1.ID, domain.DealStageQualification))
	assert.Equal(t, domain.DealStageQualification, board.Deals()[0].Stage)
}

func TestPipelineBoard_DealsReturnsCopy(t *testing.T) {
	d1 := boardDeal("d1", domain.DealStageProposal)
	board := service.NewPipelineBoard([]domain.Deal{d1}, nil)

	view := board.Deals()
	view[0].Stage = domain.DealStageClosedWon

	assert.Equal(t, domain.DealStageProposal, board.Deals()[0].Stage)
}

// gatedUpdater blocks confirmation of one deal until released
type gatedUpdater struct {
	gated   uuid.UUID
	started chan struct{}
	release chan error
}

func (u *gatedUpdater) UpdateStage(_ context.Context, _ domain.Actor, id uuid.UUID, stage domain.DealStage) (*domain.Deal, error) {
	if id != u.gated {
		return &domain.Deal{Stage: stage}, nil
	}
	close(u.started)
	if err := <-u.release; err != nil {
		return nil, err
	}
	return &domain.Deal{Stage: stage}, nil
}

func TestMoveStage_OverlappingMoveRestoresOwnSnapshot(t *testing.T) {
	d1 := boardDeal("d1", domain.DealStageQualification)
	d2 := boardDeal("d2", domain.DealStageDiscovery)
	original := []domain.Deal{d1, d2}
	board := service.NewPipelineBoard(original, nil)

	updater := &gatedUpdater{gated: d1.ID, started: make(chan struct{}), release: make(chan error)}
	ctrl := service.NewStageTransitionController(updater, zap.NewNop())
	ctx := context.Background()

	moveA := make(chan error, 1)
	go func() {
		moveA <- ctrl.MoveStage(ctx, testActor(), board, d1.ID, domain.DealStageProposal)
	}()
	<-updater.started

	require.NoError(t, ctrl.MoveStage(ctx, testActor(), board, d2.ID, domain.DealStageNegotiation))
	assert.Equal(t, []domain.DealStage{domain.DealStageProposal, domain.DealStageNegotiation}, stagesOf(board.Deals()))

	updater.release <- errors.New("server error")
	require.Error(t, <-moveA)

	// move A restores the board as it was when A started, discarding B's update
	assert.Equal(t, original, board.Deals())
}
