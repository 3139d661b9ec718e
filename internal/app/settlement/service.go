package settlement

import (
	"context"
	"fmt"
	"strconv"

	"github.com/skadam/cafe/internal/adapter/logger"
	"github.com/skadam/cafe/internal/domain"
	"github.com/skadam/cafe/internal/interfaces"
)

// Service runs the settlement workflow: the sequence triggered when staff
// mark an order paid. It coordinates loyalty, promotion and order state.
//
// The workflow is best-effort by design: loyalty and promo failures are
// collected as warnings and the order still transitions to paid. Payment
// confirmation is never blocked by loyalty bookkeeping.
type Service struct {
	orders  interfaces.OrderService
	loyalty interfaces.LoyaltyService
	promos  interfaces.PromotionService
	logger  logger.Logger
}

func NewService(
	orders interfaces.OrderService,
	loyalty interfaces.LoyaltyService,
	promos interfaces.PromotionService,
	lgr logger.Logger,
) *Service {
	return &Service{
		orders:  orders,
		loyalty: loyalty,
		promos:  promos,
		logger:  lgr,
	}
}

func (s *Service) SettleOrder(ctx context.Context, cmd interfaces.SettleOrderCommand) (*interfaces.SettlementResult, error) {
	order, ok := s.orders.Order(cmd.OrderID)
	if !ok {
		return nil, fmt.Errorf("order not found: %s", cmd.OrderID)
	}

	result := &interfaces.SettlementResult{
		OrderNumber: order.Number,
		Discount:    domain.ZeroMoney(),
		FinalTotal:  order.Total,
	}

	if s.loyalty.Settings().Enabled && cmd.Phone != "" {
		s.settleLoyalty(ctx, order, cmd, result)
	}

	// Payment state is recorded regardless of the loyalty outcome above.
	if err := s.orders.UpdateStatus(ctx, cmd.OrderID, domain.StatusPaid); err != nil {
		return nil, fmt.Errorf("failed to mark order paid: %w", err)
	}

	s.logger.Info("order_settled", fmt.Sprintf("Order #%d settled", order.Number), "", map[string]any{
		"order_number":  order.Number,
		"earned_points": result.EarnedPoints,
		"discount":      result.Discount.String(),
		"final_total":   result.FinalTotal.String(),
	})

	return result, nil
}

// settleLoyalty performs steps 1-4 of the workflow: resolve or create the
// customer, apply an optional promo code, and award points on the original
// pre-discount total. Failures land in result.Warnings.
func (s *Service) settleLoyalty(ctx context.Context, order domain.Order, cmd interfaces.SettleOrderCommand, result *interfaces.SettlementResult) {
	customer, found := s.loyalty.FindByPhone(cmd.Phone)
	if !found {
		created, err := s.loyalty.AddCustomer("Customer "+cmd.Phone, cmd.Phone)
		if err != nil {
			s.logger.Error("settlement_customer_failed", "Failed to create loyalty customer", "", map[string]any{"phone": cmd.Phone}, err)
			result.Warnings = append(result.Warnings, "loyalty customer could not be created")
			return
		}
		customer = created
	}
	result.CustomerName = customer.Name

	if cmd.PromoCode != "" {
		// Re-check at the moment of consumption: the code may have expired
		// or been exhausted since the staff previewed the discount.
		if code, valid := s.promos.Validate(cmd.PromoCode); valid {
			discount := code.Discount(order.Total)
			if s.promos.Consume(cmd.PromoCode) {
				result.PromoCode = code.Code
				result.Discount = discount
				result.FinalTotal = order.Total.Sub(discount)
			} else {
				result.Warnings = append(result.Warnings, "promo code could not be consumed")
			}
		} else {
			result.Warnings = append(result.Warnings, "promo code no longer valid")
		}
	}

	// Points accrue on the original total: the discount reduces the charge,
	// not the reward.
	earned := s.loyalty.AddPoints(customer.ID, strconv.Itoa(order.Number), order.Total)
	result.EarnedPoints = earned

	if refreshed, ok := s.loyalty.FindByPhone(cmd.Phone); ok {
		result.TotalPoints = refreshed.Points
	} else {
		result.TotalPoints = customer.Points + earned
	}
}
