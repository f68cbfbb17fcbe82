package extract

import "github.com/samber/lo"

// ImagesRule 开启图片加载时追加的规则
var ImagesRule = Rule{Name: "images", Path: "ImageSets..ImageSet"}

// Image 一组不同分辨率的图片地址
type Image struct {
	Small string `json:"small"`
	Big   string `json:"big"`
	HiRes string `json:"hiRes"`
}

// NormalizeImages 将单个或多个 ImageSet 统一为图片列表。
// 缺少任一分辨率（TinyImage / LargeImage / HiResImage）的条目被整体丢弃。
func NormalizeImages(raw any) []Image {
	return lo.FilterMap(asList(raw), func(entry any, _ int) (Image, bool) {
		set, ok := entry.(map[string]any)
		if !ok {
			return Image{}, false
		}

		tiny, large, hiRes := set["TinyImage"], set["LargeImage"], set["HiResImage"]
		if tiny == nil || large == nil || hiRes == nil {
			return Image{}, false
		}

		return Image{
			Small: imageURL(tiny),
			Big:   imageURL(large),
			HiRes: imageURL(hiRes),
		}, true
	})
}

func imageURL(image any) string {
	return scalarString(First(image, "URL"))
}

func asList(v any) []any {
	switch x := v.(type) {
	case nil:
		return nil
	case []any:
		return x
	default:
		return []any{x}
	}
}
