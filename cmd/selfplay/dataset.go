package main

import (
	"github.com/rs/zerolog/log"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"
)

// Sample 自对弈的一手：走子前的局面、所选着法、搜索分和终局结果
type Sample struct {
	GameID  string  `parquet:"name=game_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	Ply     int32   `parquet:"name=ply, type=INT32"`
	SFEN    string  `parquet:"name=sfen, type=BYTE_ARRAY, convertedtype=UTF8"`
	Move    string  `parquet:"name=move, type=BYTE_ARRAY, convertedtype=UTF8"`
	Player  string  `parquet:"name=player, type=BYTE_ARRAY, convertedtype=UTF8"`
	Score   int32   `parquet:"name=score, type=INT32"`
	WinProb float32 `parquet:"name=win_prob, type=FLOAT"`
	Result  string  `parquet:"name=result, type=BYTE_ARRAY, convertedtype=UTF8"`
	Reason  string  `parquet:"name=reason, type=BYTE_ARRAY, convertedtype=UTF8"`
}

func writeSamples(path string, samples <-chan Sample, parallel int64) (int, error) {
	log.Info().Str("path", path).Msg("writing parquet")

	fileWriter, err := local.NewLocalFileWriter(path)
	if err != nil {
		return 0, err
	}
	defer fileWriter.Close()

	parquetWriter, err := writer.NewParquetWriter(fileWriter, new(Sample), parallel)
	if err != nil {
		return 0, err
	}
	parquetWriter.CompressionType = parquet.CompressionCodec_SNAPPY

	n := 0
	for s := range samples {
		if err := parquetWriter.Write(s); err != nil {
			return n, err
		}
		n++
	}
	if err := parquetWriter.WriteStop(); err != nil {
		return n, err
	}
	return n, fileWriter.Close()
}
