package commands

import "BoxOfficeETL/internal/app"

func init() {
	rootCmd.AddCommand(
		stageCommand("collect", "Scrapes the weekend charts for every configured source and year.", (*app.Application).Collect),
		stageCommand("clean-listings", "Drops untitled and duplicate rows from the raw listing files.", (*app.Application).CleanListings),
		stageCommand("enrich", "Looks up every cleaned title in The Movie Database.", (*app.Application).Enrich),
		stageCommand("clean-movies", "Normalises dates and derives genre group columns.", (*app.Application).CleanMovies),
		stageCommand("load", "Replaces the destination tables with the cleaned files.", (*app.Application).Load),
		stageCommand("run", "Runs every stage once, in order.", (*app.Application).Run),
	)
}
