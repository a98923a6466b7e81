package main

import (
	"flag"
	"log"

	"github.com/Ardalan81/elyassi-exchange/internal/config"
	"github.com/Ardalan81/elyassi-exchange/internal/models"
	"github.com/Ardalan81/elyassi-exchange/internal/schedule"
	"github.com/Ardalan81/elyassi-exchange/internal/store"
)

// Initializes the store document and optionally adjusts settings or blocks
// dates, e.g.:
//
//	go run ./cmd/seed -capacity 4 -block 2026-03-21 -block 2026-03-22
type dateList []string

func (d *dateList) String() string { return "" }

func (d *dateList) Set(value string) error {
	if _, err := schedule.ParseDate(value); err != nil {
		return err
	}
	*d = append(*d, value)
	return nil
}

func main() {
	capacity := flag.Int("capacity", 0, "slot capacity (0 keeps the current value)")
	buyMargin := flag.Float64("buy-margin", -1, "buy margin fraction (negative keeps the current value)")
	sellMargin := flag.Float64("sell-margin", -1, "sell margin fraction (negative keeps the current value)")
	var blocked dateList
	flag.Var(&blocked, "block", "date to block (repeatable, YYYY-MM-DD)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	documentStore := store.New(cfg.StorePath)
	if err := documentStore.Ensure(); err != nil {
		log.Fatal(err)
	}

	err = documentStore.Mutate(func(doc *models.Document) error {
		if *capacity > 0 {
			doc.Settings.SlotCapacity = *capacity
		}
		if *buyMargin >= 0 {
			doc.Settings.BuyMargin = *buyMargin
		}
		if *sellMargin >= 0 {
			doc.Settings.SellMargin = *sellMargin
		}
	next:
		for _, date := range blocked {
			for _, existing := range doc.BlockedDates {
				if existing == date {
					continue next
				}
			}
			doc.BlockedDates = append(doc.BlockedDates, date)
		}
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}

	log.Printf("store seeded at %s", cfg.StorePath)
}
