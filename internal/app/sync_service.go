package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/TestimonialCarousel/internal/domain"
	"github.com/TestimonialCarousel/internal/infra/queue"
)

// CommandConsumer delivers remote commands to a handler until ctx ends.
type CommandConsumer interface {
	Start(ctx context.Context, handler queue.CommandHandler)
	Close() error
}

// CommandSyncService applies commands read from the command topic to the
// carousel. Commands that cannot be applied are returned as errors so the
// consumer can dead-letter them; a paging request that the controller
// drops is not an error.
type CommandSyncService struct {
	consumer CommandConsumer
	carousel *CarouselService
}

func NewCommandSyncService(consumer CommandConsumer, carousel *CarouselService) *CommandSyncService {
	return &CommandSyncService{
		consumer: consumer,
		carousel: carousel,
	}
}

func (s *CommandSyncService) Start(ctx context.Context) {
	slog.Info("Starting Command Sync Service (Kafka Consumer)")
	go s.consumer.Start(ctx, s.handleCommand)
}

func (s *CommandSyncService) handleCommand(ctx context.Context, cmd *domain.Command) error {
	slog.Info("Consuming carousel command", "op", cmd.Op, "id", cmd.ID)

	switch cmd.Op {
	case domain.OpNext:
		out, err := s.carousel.Next(ctx)
		return s.logOutcome(cmd, out, err)
	case domain.OpPrevious:
		out, err := s.carousel.Previous(ctx)
		return s.logOutcome(cmd, out, err)
	case domain.OpGoto:
		out, err := s.carousel.Goto(ctx, cmd.Page)
		return s.logOutcome(cmd, out, err)
	case domain.OpAutoPlay, domain.OpHover, domain.OpVisible:
		if cmd.Enabled == nil {
			return fmt.Errorf("command %s needs enabled", cmd.Op)
		}
		return s.toggle(ctx, cmd.Op, *cmd.Enabled)
	case domain.OpAdd:
		if cmd.Item == nil {
			return errors.New("add command without item")
		}
		_, err := s.carousel.AddItem(ctx, *cmd.Item)
		return err
	case domain.OpRemove:
		if cmd.ItemID == "" {
			return errors.New("remove command without item_id")
		}
		return s.carousel.RemoveItem(ctx, cmd.ItemID)
	default:
		return fmt.Errorf("unknown command op %q", cmd.Op)
	}
}

func (s *CommandSyncService) toggle(ctx context.Context, op domain.CommandOp, on bool) error {
	var err error
	switch op {
	case domain.OpAutoPlay:
		_, err = s.carousel.SetAutoPlay(ctx, on)
	case domain.OpHover:
		_, err = s.carousel.SetHovered(ctx, on)
	case domain.OpVisible:
		_, err = s.carousel.SetVisible(ctx, on)
	}
	return err
}

func (s *CommandSyncService) logOutcome(cmd *domain.Command, out Outcome, err error) error {
	if err != nil {
		return err
	}
	if !out.Accepted {
		slog.Info("Command dropped by carousel", "op", cmd.Op, "page", out.State.Page, "transitioning", out.State.IsTransitioning)
	}
	return nil
}

func (s *CommandSyncService) Stop() error {
	return s.consumer.Close()
}
