package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/stockroom/internal/domain/models"
	"github.com/mamadbah2/stockroom/internal/service/reporting"
)

// ErrInvalidArguments indicates the command payload could not be parsed.
var ErrInvalidArguments = errors.New("invalid command arguments")

// ErrUnsupportedCommand indicates we do not support the requested command.
var ErrUnsupportedCommand = errors.New("unsupported command")

// HelpMessage lists the supported command grammar.
const HelpMessage = "Supported commands: /add <item> <qty>, /remove <item> <qty>, /qty <item>, /low [threshold], /report."

// InventoryAdapter defines the stock operations required by the dispatcher.
type InventoryAdapter interface {
	Add(ctx context.Context, item string, qty int, sender string) (int, error)
	Remove(ctx context.Context, item string, qty int, sender string) (int, error)
	Quantity(item string) int
	LowStock(threshold int) []string
	Report() models.InventoryReport
}

// Dispatcher executes parsed commands against the inventory.
type Dispatcher interface {
	HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error)
}

// Service implements the Dispatcher interface.
type Service struct {
	inventory        InventoryAdapter
	defaultThreshold int
	logger           *zap.Logger
}

// NewService constructs a command dispatcher.
func NewService(inventory InventoryAdapter, defaultThreshold int, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		inventory:        inventory,
		defaultThreshold: defaultThreshold,
		logger:           logger,
	}
}

// HandleCommand executes the command and builds the human reply.
func (s *Service) HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error) {
	s.logger.Debug("dispatching command", zap.String("command", string(cmd.Type)), zap.String("sender", sender), zap.Any("args", cmd.Args))

	switch cmd.Type {
	case models.CommandAdd:
		item, qty, err := parseItemQty(cmd.Args)
		if err != nil {
			return "", err
		}
		newQty, err := s.inventory.Add(ctx, item, qty, sender)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Added %d of %s. New quantity %d.", qty, item, newQty), nil
	case models.CommandRemove:
		item, qty, err := parseItemQty(cmd.Args)
		if err != nil {
			return "", err
		}
		remaining, err := s.inventory.Remove(ctx, item, qty, sender)
		if err != nil {
			return "", err
		}
		if remaining == 0 {
			return fmt.Sprintf("Removed %d of %s. Item is out of stock and was dropped.", qty, item), nil
		}
		return fmt.Sprintf("Removed %d of %s. Remaining %d.", qty, item, remaining), nil
	case models.CommandQty:
		if len(cmd.Args) == 0 {
			return "", ErrInvalidArguments
		}
		item := cmd.Args[0]
		return fmt.Sprintf("%s stock: %d.", item, s.inventory.Quantity(item)), nil
	case models.CommandLow:
		threshold := s.defaultThreshold
		if len(cmd.Args) > 0 {
			parsed, err := strconv.Atoi(cmd.Args[0])
			if err != nil || parsed < 0 {
				return "", ErrInvalidArguments
			}
			threshold = parsed
		}
		low := s.inventory.LowStock(threshold)
		if len(low) == 0 {
			return fmt.Sprintf("All items are above the threshold of %d.", threshold), nil
		}
		return fmt.Sprintf("%d item(s) at or below %d: %s.", len(low), threshold, strings.Join(low, ", ")), nil
	case models.CommandReport:
		return reporting.RenderText(s.inventory.Report()), nil
	default:
		return "", ErrUnsupportedCommand
	}
}

func parseItemQty(args []string) (string, int, error) {
	if len(args) < 2 {
		return "", 0, ErrInvalidArguments
	}

	qty, err := strconv.Atoi(args[len(args)-1])
	if err != nil {
		return "", 0, ErrInvalidArguments
	}

	// Multi-word item names keep their spaces, e.g. "/add green tea 4".
	item := strings.Join(args[:len(args)-1], " ")
	return item, qty, nil
}
