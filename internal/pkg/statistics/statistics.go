package statistics

import (
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/contractdesk/contractdesk/app/models"
	"github.com/contractdesk/contractdesk/internal/pkg/cache"
	"github.com/contractdesk/contractdesk/internal/pkg/database"
	"github.com/contractdesk/contractdesk/internal/pkg/interval"
)

const (
	CacheKeyClientsTotal   = "statistics:clients:total"
	CacheKeyContractsTotal = "statistics:contracts:total"
	CacheKeyActiveCount    = "statistics:contracts:active:%s"  // Format with month YYYY-MM
	CacheKeyMonthlyTotal   = "statistics:contracts:monthly:%s" // Format with month YYYY-MM
	CacheExpiration        = 30 * time.Minute
)

// StatisticsData holds the dashboard summary figures.
type StatisticsData struct {
	Month           string `json:"month"`
	TotalClients    int    `json:"total_clients"`
	TotalContracts  int    `json:"total_contracts"`
	ActiveContracts int    `json:"active_contracts"`
	MonthlyTotal    int64  `json:"monthly_total"`
}

var (
	lastCacheUpdate     time.Time
	cacheUpdateMutex    sync.Mutex
	cacheUpdateInterval = 5 * time.Minute
)

// ShouldUpdateCache reports whether the summary cache is due for a refresh.
func ShouldUpdateCache() bool {
	cacheUpdateMutex.Lock()
	defer cacheUpdateMutex.Unlock()

	return time.Since(lastCacheUpdate) > cacheUpdateInterval
}

// UpdateCacheIfNeeded refreshes the summary cache when the refresh
// interval has elapsed.
func UpdateCacheIfNeeded() {
	if ShouldUpdateCache() {
		cacheUpdateMutex.Lock()
		defer cacheUpdateMutex.Unlock()

		if err := UpdateStatisticsCache(); err != nil {
			log.Printf("Error updating statistics cache: %v", err)
		} else {
			lastCacheUpdate = time.Now()
		}
	}
}

// ResetCacheUpdateTimer forces the next UpdateCacheIfNeeded to refresh.
func ResetCacheUpdateTimer() {
	cacheUpdateMutex.Lock()
	defer cacheUpdateMutex.Unlock()

	lastCacheUpdate = time.Time{}
}

func currentMonth() interval.YearMonth {
	now := time.Now()
	return interval.YearMonth{Year: now.Year(), Month: now.Month()}
}

// countActiveContracts mirrors interval.IsActiveInMonth in SQL:
// start_date <= lastDay AND end_date >= firstDay, boundaries inclusive.
func countActiveContracts(ym interval.YearMonth) (int64, error) {
	first, last := ym.Bounds()
	var count int64
	db := database.GetDB()
	err := db.Model(&models.Contract{}).
		Where("start_date <= ? AND end_date >= ?", last, first).
		Count(&count).Error
	return count, err
}

// sumMonthlyTotal sums the annual price of the month's active contracts
// and converts to the monthly-equivalent figure. Rounding happens once,
// after the sum.
func sumMonthlyTotal(ym interval.YearMonth) (int64, error) {
	first, last := ym.Bounds()
	var annual int64
	db := database.GetDB()
	err := db.Model(&models.Contract{}).
		Select("COALESCE(SUM(price), 0)").
		Where("start_date <= ? AND end_date >= ?", last, first).
		Scan(&annual).Error
	if err != nil {
		return 0, err
	}
	return interval.MonthlyEquivalent(annual), nil
}

// UpdateStatisticsCache recomputes all summary figures and stores them in
// the cache.
func UpdateStatisticsCache() error {
	db := database.GetDB()
	ym := currentMonth()

	var totalClients int64
	if err := db.Model(&models.Client{}).Count(&totalClients).Error; err != nil {
		log.Printf("Error counting clients: %v", err)
		return err
	}

	var totalContracts int64
	if err := db.Model(&models.Contract{}).Count(&totalContracts).Error; err != nil {
		log.Printf("Error counting contracts: %v", err)
		return err
	}

	activeCount, err := countActiveContracts(ym)
	if err != nil {
		log.Printf("Error counting active contracts: %v", err)
		return err
	}

	monthlyTotal, err := sumMonthlyTotal(ym)
	if err != nil {
		log.Printf("Error summing monthly total: %v", err)
		return err
	}

	if err := cache.Set(CacheKeyClientsTotal, strconv.FormatInt(totalClients, 10), CacheExpiration); err != nil {
		log.Printf("Error caching client count: %v", err)
		return err
	}
	if err := cache.Set(CacheKeyContractsTotal, strconv.FormatInt(totalContracts, 10), CacheExpiration); err != nil {
		log.Printf("Error caching contract count: %v", err)
		return err
	}
	if err := cache.Set(fmt.Sprintf(CacheKeyActiveCount, ym.String()), strconv.FormatInt(activeCount, 10), CacheExpiration); err != nil {
		log.Printf("Error caching active contract count: %v", err)
		return err
	}
	if err := cache.Set(fmt.Sprintf(CacheKeyMonthlyTotal, ym.String()), strconv.FormatInt(monthlyTotal, 10), CacheExpiration); err != nil {
		log.Printf("Error caching monthly total: %v", err)
		return err
	}

	log.Printf("Statistics updated in cache: clients=%d contracts=%d active=%d monthly=%d",
		totalClients, totalContracts, activeCount, monthlyTotal)

	return nil
}

// cachedInt64 reads an integer from the cache, falling back to compute
// and re-cache on miss.
func cachedInt64(key string, compute func() (int64, error)) int64 {
	val, err := cache.Get(key)
	if err != nil {
		count, err := compute()
		if err != nil {
			log.Printf("Error computing %s: %v", key, err)
			return 0
		}
		if err := cache.Set(key, strconv.FormatInt(count, 10), CacheExpiration); err != nil {
			log.Printf("Error caching %s: %v", key, err)
		}
		return count
	}

	count, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0
	}
	return count
}

// GetStatisticsData returns the dashboard summary, served from cache when
// warm.
func GetStatisticsData() StatisticsData {
	ym := currentMonth()
	db := database.GetDB()

	totalClients := cachedInt64(CacheKeyClientsTotal, func() (int64, error) {
		var count int64
		err := db.Model(&models.Client{}).Count(&count).Error
		return count, err
	})
	totalContracts := cachedInt64(CacheKeyContractsTotal, func() (int64, error) {
		var count int64
		err := db.Model(&models.Contract{}).Count(&count).Error
		return count, err
	})
	activeCount := cachedInt64(fmt.Sprintf(CacheKeyActiveCount, ym.String()), func() (int64, error) {
		return countActiveContracts(ym)
	})
	monthlyTotal := cachedInt64(fmt.Sprintf(CacheKeyMonthlyTotal, ym.String()), func() (int64, error) {
		return sumMonthlyTotal(ym)
	})

	return StatisticsData{
		Month:           ym.String(),
		TotalClients:    int(totalClients),
		TotalContracts:  int(totalContracts),
		ActiveContracts: int(activeCount),
		MonthlyTotal:    monthlyTotal,
	}
}
