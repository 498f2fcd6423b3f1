package keywords

import (
	"sync"
	"unicode/utf8"

	"github.com/go-ego/gse"
)

// placePOS gse 地名词性
const placePOS = "ns"

// PlaceTagger 基于 gse 词性标注的地名识别器
type PlaceTagger struct {
	gse         gse.Segmenter
	mu          sync.RWMutex
	initialized bool
}

// 常见旅游目的地，保证分词时不被拆开
var travelPlaces = []string{
	"西双版纳", "香格里拉", "九寨沟", "张家界", "呼伦贝尔", "喀纳斯",
	"稻城亚丁", "鼓浪屿", "涠洲岛", "婺源", "阳朔", "凤凰古城",
	"巴厘岛", "普吉岛", "济州岛", "北海道",
}

// NewPlaceTagger 创建地名识别器。
// dictFiles 为空时加载 gse 自带词典；extraPlaces 作为地名加入用户词典。
func NewPlaceTagger(dictFiles []string, extraPlaces ...string) (*PlaceTagger, error) {
	pt := &PlaceTagger{}

	var err error
	if len(dictFiles) > 0 {
		err = pt.gse.LoadDict(dictFiles...)
	} else {
		err = pt.gse.LoadDict()
	}
	if err != nil {
		return nil, WrapErrorf(ErrDictionaryNotFound, "load gse dict: %v", err)
	}

	for _, place := range travelPlaces {
		pt.gse.AddToken(place, 1000, placePOS)
	}
	for _, place := range extraPlaces {
		pt.gse.AddToken(place, 1000, placePOS)
	}
	pt.initialized = true
	return pt, nil
}

// AddPlace 添加自定义地名
func (pt *PlaceTagger) AddPlace(place string) error {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	if !pt.initialized {
		return ErrNotInitialized
	}
	pt.gse.AddToken(place, 1000, placePOS)
	return nil
}

// FindPlace 返回文本中第一个被标注为地名的词（至少两个字）。
func (pt *PlaceTagger) FindPlace(text string) (string, bool) {
	if pt == nil {
		return "", false
	}
	pt.mu.RLock()
	defer pt.mu.RUnlock()

	if !pt.initialized || text == "" {
		return "", false
	}
	for _, sp := range pt.gse.Pos(text) {
		if sp.Pos == placePOS && utf8.RuneCountInString(sp.Text) >= 2 {
			return sp.Text, true
		}
	}
	return "", false
}
