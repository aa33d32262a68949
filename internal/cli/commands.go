package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/nutrikeeper/internal/common"
	"github.com/dmitrijs2005/nutrikeeper/internal/filter"
	"github.com/dmitrijs2005/nutrikeeper/internal/models"
	"github.com/dmitrijs2005/nutrikeeper/internal/openfoodfacts"
	"github.com/dmitrijs2005/nutrikeeper/internal/services"
)

// ErrUsage is returned for malformed command arguments.
var ErrUsage = errors.New("usage")

func usage(format string) error {
	return fmt.Errorf("%w: %s", ErrUsage, format)
}

// Import reads an Open Food Facts product document and caches it.
func (a *App) Import(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("import <file.json>")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	scan, err := openfoodfacts.ParseProduct(data)
	if err != nil {
		return err
	}
	if err := a.store.Save(ctx, scan); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Saved %s %s\n", scan.Barcode, displayName(scan))
	return a.printWarnings(ctx, scan)
}

// Add creates a manually logged food without a product code.
func (a *App) Add(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usage("add <name>")
	}
	scan := &models.ScanResult{
		Barcode:       models.ManualScanID(),
		Name:          strings.Join(args, " "),
		DataSource:    "manual",
		CaptureSource: models.CaptureBarcode,
	}
	if err := a.store.Save(ctx, scan); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Saved %s %s (use 'edit' to add nutrition)\n", scan.Barcode, scan.Name)
	return nil
}

// Photo caches a product captured from an image. The key is derived from the
// image bytes, so importing the same picture twice updates one entry and
// keeps the nutrition entered for it with edit.
func (a *App) Photo(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return usage("photo <image> [name]")
	}
	img, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	name := strings.Join(args[1:], " ")
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
	}
	scan := &models.ScanResult{
		Barcode:       models.PhotoScanID(img),
		Name:          name,
		DataSource:    "photo",
		CaptureSource: models.CapturePhoto,
		PhotoRef:      args[0],
	}

	prev, err := a.store.Get(ctx, scan.Barcode)
	if err != nil {
		return err
	}
	if prev != nil {
		scan.Nutrition = prev.Nutrition
	}

	if err := a.store.Save(ctx, scan); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Saved %s %s\n", scan.Barcode, scan.Name)
	return nil
}

// Show prints one product with its warnings and consumptions.
func (a *App) Show(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("show <barcode>")
	}
	scan, err := a.store.Get(ctx, args[0])
	if err != nil {
		return err
	}
	if scan == nil {
		fmt.Fprintf(a.out, "No product with barcode %s\n", args[0])
		return nil
	}

	writeScan(a.out, scan, a.loc)
	if err := a.printWarnings(ctx, scan); err != nil {
		return err
	}
	writeConsumptions(a.out, scan.Consumptions, a.loc)
	return nil
}

func (a *App) printWarnings(ctx context.Context, scan *models.ScanResult) error {
	profile, err := a.profiles.Load(ctx)
	if err != nil {
		return err
	}
	writeWarnings(a.out, filter.CheckProduct(profile, scan))
	return nil
}

// Eat logs a portion of a cached product.
func (a *App) Eat(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usage("eat <barcode> <grams>")
	}
	grams, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return usage("eat <barcode> <grams>, grams must be a number")
	}

	rec, err := a.store.AddConsumption(ctx, args[0], grams)
	if errors.Is(err, common.ErrorNotFound) {
		fmt.Fprintf(a.out, "No product with barcode %s, import it first\n", args[0])
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Logged %sg: %s\n", formatNumber(rec.PortionGrams), formatPortion(rec.Nutrition))
	return nil
}

// Edit merges user-typed per-100g values into a product.
func (a *App) Edit(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usage("edit <barcode> key=value ...")
	}
	patch, err := parseNutritionPatch(args[1:])
	if err != nil {
		return err
	}

	scan, err := a.store.Get(ctx, args[0])
	if err != nil {
		return err
	}
	if scan == nil {
		fmt.Fprintf(a.out, "No product with barcode %s\n", args[0])
		return nil
	}
	if err := a.store.UpdateNutrition(ctx, args[0], patch); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Updated %s\n", args[0])
	return nil
}

// History lists cached products, most recent scan first.
func (a *App) History(ctx context.Context, args []string) error {
	raw := ""
	if len(args) > 0 {
		raw = args[0]
	}
	f, err := models.ParseHistoryFilter(raw)
	if err != nil {
		return usage("history [all|consumed|today]")
	}

	list, err := a.store.GetHistoryFiltered(ctx, f)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No products")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LAST SCAN\tBARCODE\tNAME\tEATEN")
	for i := range list {
		s := &list[i]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n",
			s.LastScannedAt.In(a.loc).Format(timeLayout), s.Barcode, displayName(s), len(s.Consumptions))
	}
	return tw.Flush()
}

// Today prints the totals of the current calendar day.
func (a *App) Today(ctx context.Context) error {
	t, err := a.stats.DailyTotals(ctx, a.now().In(a.loc))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s: %d items, %s kcal, sugar %sg, salt %sg, protein %sg, carbs %sg\n",
		t.Date.Format("2006-01-02"), t.ItemCount, formatNumber(t.Calories), formatNumber(t.Sugar),
		formatNumber(t.Salt), formatNumber(t.Protein), formatNumber(t.Carbs))
	return nil
}

// Stats prints the averages of the last N days and the trend against the N
// days before.
func (a *App) Stats(ctx context.Context, args []string) error {
	days := 7
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return usage("stats [days]")
		}
		days = n
	}

	r, err := a.stats.Trend(ctx, days)
	if err != nil {
		return err
	}
	if !r.Current.HasData() {
		fmt.Fprintf(a.out, "No consumptions in the last %d days\n", days)
		return nil
	}

	c := r.Current
	fmt.Fprintf(a.out, "Last %d days (%d tracked, %d items), daily average:\n", days, c.DaysTracked, c.TotalItems)
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "  calories\t%s kcal\t%s\n", formatNumber(c.AvgCalories), services.FormatTrend(r.Calories))
	fmt.Fprintf(tw, "  sugar\t%s g\t%s\n", formatNumber(c.AvgSugar), services.FormatTrend(r.Sugar))
	fmt.Fprintf(tw, "  protein\t%s g\t%s\n", formatNumber(c.AvgProtein), services.FormatTrend(r.Protein))
	fmt.Fprintf(tw, "  carbs\t%s g\t%s\n", formatNumber(c.AvgCarbs), services.FormatTrend(r.Carbs))
	return tw.Flush()
}

// Profile prints the filter settings.
func (a *App) Profile(ctx context.Context) error {
	p, err := a.profiles.Load(ctx)
	if err != nil {
		return err
	}
	writeProfile(a.out, p)
	return nil
}

// Set changes one profile setting.
func (a *App) Set(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usage("set <key> <value>")
	}
	patch, err := parseProfilePatch(args[0], args[1:])
	if err != nil {
		return err
	}
	p, err := a.profiles.Update(ctx, patch)
	if err != nil {
		return err
	}
	writeProfile(a.out, p)
	return nil
}

// Reset restores the default profile.
func (a *App) Reset(ctx context.Context) error {
	p, err := a.profiles.Reset(ctx)
	if err != nil {
		return err
	}
	writeProfile(a.out, p)
	return nil
}

// Clear wipes the product cache and the ledger after confirmation.
func (a *App) Clear(ctx context.Context) error {
	ok, err := Confirm(a.in, "Delete every product and consumption?", a.out)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "Cancelled")
		return nil
	}
	if err := a.store.Clear(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Cleared")
	return nil
}
