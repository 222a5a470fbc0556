// Copyright 2026 tunefm Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/juju/errors"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/tunefm/tunefm/base/log"
	"github.com/tunefm/tunefm/cmd/version"
	"github.com/tunefm/tunefm/config"
	"github.com/tunefm/tunefm/dataset"
	"github.com/tunefm/tunefm/model/cf"
	"github.com/tunefm/tunefm/recommend"
	"go.uber.org/zap"
)

var tunefmCommand = &cobra.Command{
	Use:          "tunefm",
	Short:        "Recommend music artists from implicit listening feedback.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// show version
		showVersion, _ := cmd.PersistentFlags().GetBool("version")
		if showVersion {
			fmt.Println(version.BuildInfo())
			return nil
		}
		// setup logger
		debugMode, _ := cmd.PersistentFlags().GetBool("debug")
		log.SetLogger(cmd.PersistentFlags(), debugMode)
		// load config
		configPath, _ := cmd.PersistentFlags().GetString("config")
		conf, err := config.LoadConfig(configPath)
		if err != nil {
			return errors.Trace(err)
		}
		// flags override config file values
		if cmd.PersistentFlags().Changed("interactions") {
			conf.Data.InteractionsPath, _ = cmd.PersistentFlags().GetString("interactions")
		}
		if cmd.PersistentFlags().Changed("artists") {
			conf.Data.ArtistsPath, _ = cmd.PersistentFlags().GetString("artists")
		}
		if cmd.PersistentFlags().Changed("user") {
			conf.Recommend.UserId, _ = cmd.PersistentFlags().GetInt("user")
		}
		if cmd.PersistentFlags().Changed("top-n") {
			conf.Recommend.TopN, _ = cmd.PersistentFlags().GetInt("top-n")
		}
		if err := conf.Validate(); err != nil {
			return errors.Trace(err)
		}
		return run(cmd.Context(), conf, cmd.OutOrStdout())
	},
}

func init() {
	tunefmCommand.PersistentFlags().BoolP("version", "v", false, "tunefm version")
	tunefmCommand.PersistentFlags().StringP("config", "c", "", "configuration file path")
	tunefmCommand.PersistentFlags().String("interactions", "", "user-artist interaction file path")
	tunefmCommand.PersistentFlags().String("artists", "", "artist file path")
	tunefmCommand.PersistentFlags().Int("user", 0, "target user id")
	tunefmCommand.PersistentFlags().IntP("top-n", "n", 0, "number of recommendations")
	tunefmCommand.PersistentFlags().Bool("debug", false, "use debug log mode")
	log.AddFlags(tunefmCommand.PersistentFlags())
}

// run executes the batch pipeline: load both tables, fit the model once,
// recommend for the configured user and print the ranked list.
func run(ctx context.Context, conf *config.Config, out io.Writer) error {
	artists, err := dataset.LoadArtists(conf.Data.ArtistsPath)
	if err != nil {
		return errors.Trace(err)
	}
	trainSet, err := dataset.LoadInteractions(conf.Data.InteractionsPath)
	if err != nil {
		return errors.Trace(err)
	}
	recommender := recommend.NewRecommender(cf.NewALS(conf.ALSParams()))
	fitConfig := cf.NewFitConfig().
		SetJobs(conf.Recommend.Jobs).
		SetVerbose(conf.ALS.Verbose)
	if err := recommender.Fit(ctx, trainSet, fitConfig); err != nil {
		return errors.Trace(err)
	}
	results, err := recommender.Recommend(int32(conf.Recommend.UserId), trainSet, conf.Recommend.TopN)
	if err != nil {
		return errors.Trace(err)
	}
	names := make([]string, len(results))
	for i, result := range results {
		if names[i], err = artists.Name(result.ArtistID); err != nil {
			return errors.Trace(err)
		}
	}
	lines := lo.Map(results, func(result recommend.Result, i int) string {
		return fmt.Sprintf("%d. %s — Score: %.3f", i+1, names[i], result.Score)
	})
	if _, err := fmt.Fprintf(out, "Top %d recommendations for user %d:\n\n", conf.Recommend.TopN, conf.Recommend.UserId); err != nil {
		return errors.Trace(err)
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(out, line); err != nil {
			return errors.Trace(err)
		}
	}
	return nil
}

func main() {
	if err := tunefmCommand.Execute(); err != nil {
		log.Logger().Fatal("failed to execute", zap.Error(err))
	}
}
