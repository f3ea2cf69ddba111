package main

import (
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/goutte-app/goutte/internal/config"
	"github.com/goutte-app/goutte/internal/infusion"
)

// pickSelection asks for the mode (unless given) and then for a volume and a
// duration from that mode's catalogs, preselecting the mode defaults.
func pickSelection(cfg config.Config, mode string) (*infusion.Selection, error) {
	m := cfg.InitialMode()
	if mode != "" {
		var err error
		if m, err = infusion.ParseMode(mode); err != nil {
			return nil, err
		}
	} else {
		modeOpts := make([]huh.Option[infusion.Mode], 0, len(infusion.Modes()))
		for _, opt := range infusion.Modes() {
			modeOpts = append(modeOpts, huh.NewOption(opt.Label()+" (drop factor "+strconv.Itoa(opt.DropFactor())+")", opt))
		}
		err := huh.NewForm(huh.NewGroup(
			huh.NewSelect[infusion.Mode]().
				Title("Infusion").
				Options(modeOpts...).
				Value(&m),
		)).Run()
		if err != nil {
			return nil, err
		}
	}

	f := infusion.NewFormatterFor(cfg.Locale)
	defaults := infusion.NewSelection(m)
	volume, duration := defaults.VolumeML(), defaults.DurationMin()

	err := huh.NewForm(huh.NewGroup(
		huh.NewSelect[int]().
			Title("Volume").
			Options(catalogOptions(defaults.Catalog(infusion.Volume), f.Volume)...).
			Value(&volume),
		huh.NewSelect[int]().
			Title("Duration").
			Options(catalogOptions(defaults.Catalog(infusion.Duration), f.Duration)...).
			Value(&duration),
	)).Run()
	if err != nil {
		return nil, err
	}
	return infusion.SelectValues(m, volume, duration)
}

func catalogOptions(c infusion.Catalog, label func(int) string) []huh.Option[int] {
	opts := make([]huh.Option[int], 0, len(c))
	for _, v := range c {
		opts = append(opts, huh.NewOption(label(v), v))
	}
	return opts
}
