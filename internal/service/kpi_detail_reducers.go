package service

import (
	"sort"

	"github.com/fermx3/companeros-en-ruta-api/internal/domain"
	"github.com/google/uuid"
)

// The reducers turn fact view rows into drill-down shapes. They are pure:
// no queries, no clocks. Empty input produces zero-valued shapes with empty
// (never nil) arrays.

func reduceVolume(facts []domain.VolumeFact, target *float64) *domain.VolumeDetail {
	weekTotals := map[int]*domain.VolumeWeekPoint{}
	zoneTotals := map[uuid.UUID]*domain.VolumeZoneRow{}

	for _, f := range facts {
		wp, ok := weekTotals[f.PeriodWeek]
		if !ok {
			wp = &domain.VolumeWeekPoint{Week: f.PeriodWeek}
			weekTotals[f.PeriodWeek] = wp
		}
		wp.Revenue += f.Revenue
		wp.WeightTons += f.WeightTons

		zr, ok := zoneTotals[f.ZoneID]
		if !ok {
			zr = &domain.VolumeZoneRow{ZoneID: f.ZoneID, ZoneName: f.ZoneName}
			zoneTotals[f.ZoneID] = zr
		}
		zr.Revenue += f.Revenue
		zr.WeightTons += f.WeightTons
	}

	weekly := make([]domain.VolumeWeekPoint, 0, len(weekTotals))
	for _, wp := range weekTotals {
		weekly = append(weekly, *wp)
	}
	sort.Slice(weekly, func(i, j int) bool { return weekly[i].Week < weekly[j].Week })

	byZone := make([]domain.VolumeZoneRow, 0, len(zoneTotals))
	for _, zr := range zoneTotals {
		byZone = append(byZone, *zr)
	}
	sort.Slice(byZone, func(i, j int) bool { return byZone[i].Revenue > byZone[j].Revenue })

	// Totals are derived from by_zone, never re-queried, so the two stay
	// consistent by construction.
	var monthlyTotal, weightTotal float64
	for _, zr := range byZone {
		monthlyTotal += zr.Revenue
		weightTotal += zr.WeightTons
	}

	return &domain.VolumeDetail{
		Weekly:          weekly,
		MonthlyTotal:    monthlyTotal,
		WeightTonsTotal: weightTotal,
		ByZone:          byZone,
		Target:          target,
		AchievementPct:  achievement(monthlyTotal, target),
	}
}

func reduceReach(facts []domain.ReachFact, target *float64) *domain.ReachDetail {
	type zoneAgg struct {
		row domain.ReachZoneRow
	}
	zones := map[uuid.UUID]*zoneAgg{}
	var order []uuid.UUID

	for _, f := range facts {
		z, ok := zones[f.ZoneID]
		if !ok {
			// total_active_members repeats per row within a zone; the
			// first row seen wins. A structural assumption on the view,
			// not re-validated here.
			z = &zoneAgg{row: domain.ReachZoneRow{
				ZoneID:             f.ZoneID,
				ZoneName:           f.ZoneName,
				TotalActiveMembers: f.TotalActiveMembers,
			}}
			zones[f.ZoneID] = z
			order = append(order, f.ZoneID)
		}
		z.row.ClientsVisited += f.ClientsVisited
	}

	byZone := make([]domain.ReachZoneRow, 0, len(zones))
	var totalVisited, totalMembers int
	for _, id := range order {
		row := zones[id].row
		row.ReachPct = pct(float64(row.ClientsVisited), float64(row.TotalActiveMembers))
		byZone = append(byZone, row)
		totalVisited += row.ClientsVisited
		totalMembers += row.TotalActiveMembers
	}
	sort.Slice(byZone, func(i, j int) bool { return byZone[i].ReachPct > byZone[j].ReachPct })

	return &domain.ReachDetail{
		ByZone:              byZone,
		MonthlyTotalVisited: totalVisited,
		TotalActiveMembers:  totalMembers,
		ReachPct:            pct(float64(totalVisited), float64(totalMembers)),
		Target:              target,
		AchievementPct:      achievement(pct(float64(totalVisited), float64(totalMembers)), target),
	}
}

func reduceMix(facts []domain.MixFact, target *float64) *domain.MixDetail {
	type marketAgg struct {
		name    string
		clients map[uuid.UUID]struct{}
	}
	markets := map[uuid.UUID]*marketAgg{}
	allClients := map[uuid.UUID]struct{}{}

	for _, f := range facts {
		m, ok := markets[f.MarketID]
		if !ok {
			m = &marketAgg{name: f.MarketName, clients: map[uuid.UUID]struct{}{}}
			markets[f.MarketID] = m
		}
		m.clients[f.ClientID] = struct{}{}
		allClients[f.ClientID] = struct{}{}
	}

	channels := make([]domain.MixChannelRow, 0, len(markets))
	for id, m := range markets {
		channels = append(channels, domain.MixChannelRow{
			MarketID:    id,
			MarketName:  m.name,
			ClientCount: len(m.clients),
		})
	}
	sort.Slice(channels, func(i, j int) bool {
		if channels[i].ClientCount != channels[j].ClientCount {
			return channels[i].ClientCount > channels[j].ClientCount
		}
		return channels[i].MarketName < channels[j].MarketName
	})

	distinct := len(allClients)
	return &domain.MixDetail{
		Channels:       channels,
		DistinctCount:  distinct,
		Target:         target,
		AchievementPct: achievement(float64(distinct), target),
	}
}

func reduceAssortment(facts []domain.AssortmentFact, target *float64) *domain.AssortmentDetail {
	byZone := make([]domain.AssortmentZoneRow, 0, len(facts))
	var weightedSum float64
	var totalVisits int

	for _, f := range facts {
		byZone = append(byZone, domain.AssortmentZoneRow{
			ZoneID:     f.ZoneID,
			ZoneName:   f.ZoneName,
			AvgPct:     round1(f.AvgPct),
			VisitCount: f.VisitCount,
		})
		weightedSum += f.AvgPct * float64(f.VisitCount)
		totalVisits += f.VisitCount
	}
	sort.Slice(byZone, func(i, j int) bool { return byZone[i].AvgPct > byZone[j].AvgPct })

	// Weighted by per-zone visit counts, not a simple mean of zone
	// percentages.
	var avg float64
	if totalVisits > 0 {
		avg = round1(weightedSum / float64(totalVisits))
	}

	return &domain.AssortmentDetail{
		AvgPct:         avg,
		ByZone:         byZone,
		Target:         target,
		AchievementPct: achievement(avg, target),
	}
}

func reduceMarketShare(facts []domain.MarketShareFact, target *float64) *domain.MarketShareDetail {
	byZone := make([]domain.MarketShareZoneRow, 0, len(facts))
	var brandPresent, competitorPresent, brandFacings, competitorFacings int

	for _, f := range facts {
		byZone = append(byZone, domain.MarketShareZoneRow{
			ZoneID:            f.ZoneID,
			ZoneName:          f.ZoneName,
			SharePct:          pct(float64(f.BrandPresent), float64(f.BrandPresent+f.CompetitorPresent)),
			BrandPresent:      f.BrandPresent,
			CompetitorPresent: f.CompetitorPresent,
		})
		brandPresent += f.BrandPresent
		competitorPresent += f.CompetitorPresent
		brandFacings += f.BrandFacings
		competitorFacings += f.CompetitorFacings
	}
	sort.Slice(byZone, func(i, j int) bool { return byZone[i].SharePct > byZone[j].SharePct })

	sharePct := pct(float64(brandPresent), float64(brandPresent+competitorPresent))

	return &domain.MarketShareDetail{
		SharePct:          sharePct,
		BrandPresent:      brandPresent,
		CompetitorPresent: competitorPresent,
		ShareByFacingsPct: pct(float64(brandFacings), float64(brandFacings+competitorFacings)),
		ByZone:            byZone,
		Target:            target,
		AchievementPct:    achievement(sharePct, target),
	}
}

func reduceShelf(facts []domain.ShelfFact, target *float64) *domain.ShelfDetail {
	byZone := make([]domain.ShelfZoneRow, 0, len(facts))
	var popPresent, popTotal, exhibExecuted, exhibTotal int

	for _, f := range facts {
		byZone = append(byZone, domain.ShelfZoneRow{
			ZoneID:      f.ZoneID,
			ZoneName:    f.ZoneName,
			CombinedPct: pct(float64(f.PopPresent+f.ExhibExecuted), float64(f.PopTotal+f.ExhibTotal)),
			PopPct:      pct(float64(f.PopPresent), float64(f.PopTotal)),
			ExhibPct:    pct(float64(f.ExhibExecuted), float64(f.ExhibTotal)),
		})
		popPresent += f.PopPresent
		popTotal += f.PopTotal
		exhibExecuted += f.ExhibExecuted
		exhibTotal += f.ExhibTotal
	}
	sort.Slice(byZone, func(i, j int) bool { return byZone[i].CombinedPct > byZone[j].CombinedPct })

	// Combined share is computed over the union of POP and exhibition
	// totals, not an average of the two sub-percentages.
	combined := pct(float64(popPresent+exhibExecuted), float64(popTotal+exhibTotal))

	return &domain.ShelfDetail{
		CombinedPct:    combined,
		PopPct:         pct(float64(popPresent), float64(popTotal)),
		ExhibPct:       pct(float64(exhibExecuted), float64(exhibTotal)),
		ByZone:         byZone,
		Target:         target,
		AchievementPct: achievement(combined, target),
	}
}
