// Package couponrepo provides data transfer objects and mapping functions for coupon persistence.
// Coupons are keyed by their uppercase code; the redemption counter is only
// ever moved by the guarded increment in the repository, never by the domain.
package couponrepo

import (
	"time"

	"marketplace/internal/core/domain/model/coupon"
	"marketplace/internal/core/domain/model/kernel"
)

// CouponDTO represents the database structure for persisting coupons.
// Monetary amounts are stored in cents; MaxDiscount is null for flat coupons
// and for percentage coupons without a cap.
type CouponDTO struct {
	Code            string    `gorm:"type:varchar(64);primaryKey"`
	DiscountType    string    `gorm:"type:varchar(16);not null"`
	FlatAmount      int64     `gorm:"type:bigint;not null"`
	PercentValue    float64   `gorm:"type:double precision;not null"`
	MaxDiscount     *int64    `gorm:"type:bigint"`
	MinOrderAmount  int64     `gorm:"type:bigint;not null"`
	ExpiresAt       time.Time `gorm:"not null"`
	MaxRedemptions  int       `gorm:"type:int;not null"`
	RedemptionCount int       `gorm:"type:int;not null"`
	Active          bool      `gorm:"not null"`
}

// TableName specifies the database table name for coupon entities.
func (CouponDTO) TableName() string {
	return "coupons"
}

// fromDomain converts a coupon to its database representation.
// New rows start active; deactivation happens directly in storage.
func fromDomain(cpn *coupon.Coupon) CouponDTO {
	var maxDiscount *int64
	if cpn.MaxDiscount() != nil {
		cents := cpn.MaxDiscount().Cents()
		maxDiscount = &cents
	}

	return CouponDTO{
		Code:            cpn.Code(),
		DiscountType:    cpn.DiscountType().String(),
		FlatAmount:      cpn.FlatAmount().Cents(),
		PercentValue:    cpn.PercentValue(),
		MaxDiscount:     maxDiscount,
		MinOrderAmount:  cpn.MinOrderAmount().Cents(),
		ExpiresAt:       cpn.ExpiresAt(),
		MaxRedemptions:  cpn.MaxRedemptions(),
		RedemptionCount: cpn.Redemptions(),
		Active:          true,
	}
}

// toDomain converts a database DTO to a coupon using RestoreCoupon.
func toDomain(dto CouponDTO) (*coupon.Coupon, error) {
	discountType, err := coupon.DiscountTypeFromString(dto.DiscountType)
	if err != nil {
		return nil, err
	}

	flatAmount, err := kernel.NewMoney(dto.FlatAmount)
	if err != nil {
		return nil, err
	}

	minOrderAmount, err := kernel.NewMoney(dto.MinOrderAmount)
	if err != nil {
		return nil, err
	}

	var maxDiscount *kernel.Money
	if dto.MaxDiscount != nil {
		m, mErr := kernel.NewMoney(*dto.MaxDiscount)
		if mErr != nil {
			return nil, mErr
		}
		maxDiscount = &m
	}

	return coupon.RestoreCoupon(
		dto.Code, discountType,
		flatAmount, dto.PercentValue, maxDiscount,
		minOrderAmount, dto.ExpiresAt,
		dto.MaxRedemptions, dto.RedemptionCount,
	)
}
