package catalog

import "github.com/adampresley/digitalpaintings/pkg/models"

/*
Paintings is the gallery, in display order. The first entry is the one
used for social sharing previews.
*/
func Paintings() []models.ImageDescriptor {
	return []models.ImageDescriptor{
		{Source: "paintings/cave-1.png", Caption: "The Path Revealed", Date: "Aug 4, 2024"},
		{Source: "paintings/waves-1.png", Caption: "The Descent to Stillness", Date: "June 11, 2023"},
		{Source: "paintings/trees-1.png", Caption: "Shared Roots, Dancing Leaves"},
		{Source: "paintings/knots-1.jpeg", Caption: "Rewriting the Knots", Date: "August 18, 2024"},
		{Source: "paintings/bees-1.png", Caption: "Within the Hive", Date: "August 11, 2024"},
		{Source: "paintings/circles-1.png", Caption: "The Chronal Carousel"},
	}
}
