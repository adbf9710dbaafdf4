package cluster

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
)

// initKMeansPlusPlus はk-means++法でk個の初期中心を選択します。
// 2個目以降の中心は、既存の最近傍中心までの距離の二乗に比例する確率で選ばれます。
func initKMeansPlusPlus(samples [][]float64, k int, rng *rand.Rand) [][]float64 {
	centers := make([][]float64, k)

	// 最初のクラスタ中心をランダムに選択
	centers[0] = append([]float64(nil), samples[rng.IntN(len(samples))]...)

	distances := make([]float64, len(samples))
	for c := 1; c < k; c++ {
		total := 0.0
		for i, s := range samples {
			minDist := math.Inf(1)
			for _, center := range centers[:c] {
				if d := floats.Distance(s, center, 2); d < minDist {
					minDist = d
				}
			}
			distances[i] = minDist * minDist
			total += distances[i]
		}

		// 確率に応じてサンプルを選択
		target := rng.Float64() * total
		cumSum := 0.0
		selected := len(samples) - 1
		for i, d := range distances {
			cumSum += d
			if cumSum >= target {
				selected = i
				break
			}
		}
		centers[c] = append([]float64(nil), samples[selected]...)
	}
	return centers
}

// nearestCenter は最も近いクラスタ中心のインデックスを返します
func nearestCenter(sample []float64, centers [][]float64) int {
	best, bestDist := 0, math.Inf(1)
	for i, c := range centers {
		if d := floats.Distance(sample, c, 2); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
