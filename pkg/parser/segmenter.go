package parser

// Segmentation 分段结果：首个标题之前的个人信息行，以及按标题切分的章节块
// 每个章节块的第 0 行为标题行
type Segmentation struct {
	PersonalLines []string
	Sections      [][]string
}

// Segment 按章节标题对行进行一次顺序扫描切分
func Segment(lines []string) Segmentation {
	seg := Segmentation{PersonalLines: []string{}, Sections: [][]string{}}

	var current []string
	seenHeader := false
	for _, ln := range lines {
		if !IsHeader(ln) {
			current = append(current, ln)
			continue
		}
		if !seenHeader {
			seg.PersonalLines = append(seg.PersonalLines, current...)
			seenHeader = true
		} else if len(current) > 0 {
			seg.Sections = append(seg.Sections, current)
		}
		current = []string{ln}
	}

	if !seenHeader {
		// 没有任何标题：全部视为个人信息，由调用方走空行切分兜底
		seg.PersonalLines = append(seg.PersonalLines, current...)
	} else if len(current) > 0 {
		seg.Sections = append(seg.Sections, current)
	}
	return seg
}
