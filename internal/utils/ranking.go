package utils

import (
	"math"
	"time"
)

type RankConfig struct {
	Gravity        float64 // 时间重力 (1.5)
	WeightSave     float64 // 3.0
	WeightComment  float64 // 2.0
	WeightLike     float64 // 1.0
	WeightDislike  float64 // 1.5
	ScaleFactor    float64 // 放大系数 (100)
}

var DefaultConfig = RankConfig{
	Gravity:       1.5,
	WeightSave:    3.0,
	WeightComment: 2.0,
	WeightLike:    1.0,
	WeightDislike: 1.5,
	ScaleFactor:   100.0, // 让分数落在 0-100 区间，像"温度"
}

func CalculateScore(t time.Time, liked, disliked, saved, hit, comment int) float64 {
	hours := time.Since(t).Hours()

	// 1. 计算加权互动值 (Weighted Sum)
	// 注意：这里去掉了 Hit，因为浏览量数量级太大，不适合放在 Log 里的权重计算
	weightedSum := (float64(liked) * DefaultConfig.WeightLike) +
		(float64(comment) * DefaultConfig.WeightComment) +
		(float64(saved) * DefaultConfig.WeightSave) -
		(float64(disliked) * DefaultConfig.WeightDislike)

	// 2. 基础修正
	if weightedSum < 0 {
		weightedSum = 0 // 防止负数无法取对数
	}

	// 3. 对数平滑 (Log Smoothing)
	logScore := math.Log10(weightedSum + 1)

	// 4. 放大系数 (0.x -> 几十)
	numerator := logScore * DefaultConfig.ScaleFactor

	// 5. 时间衰减 (分母)
	decay := math.Pow(hours+2, DefaultConfig.Gravity)

	return numerator / decay
}
