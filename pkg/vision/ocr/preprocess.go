package ocr

import (
	"gocv.io/x/gocv"

	"github.com/h8d13/Ceauron/pkg/vision/cv"
)

// Preprocess 识别前的图像预处理：灰度化、Otsu 二值化、去噪
// 返回的 Mat 由调用方负责释放
func Preprocess(img gocv.Mat) gocv.Mat {
	gray := cv.ToGray(img)
	defer gray.Close()

	binary := gocv.NewMat()
	gocv.Threshold(gray, &binary, 0, 255, gocv.ThresholdBinary+gocv.ThresholdOtsu)

	denoised := gocv.NewMat()
	gocv.FastNlMeansDenoising(binary, &denoised)
	binary.Close()

	return denoised
}
